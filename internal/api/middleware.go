package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
	"github.com/TanoojVardhan/sloth-planner/internal/auth"
)

type ctxKey int

const actorKey ctxKey = iota

// ActorFromContext returns the authenticated actor placed by AuthMiddleware.
func ActorFromContext(ctx context.Context) (*auth.Actor, bool) {
	a, ok := ctx.Value(actorKey).(*auth.Actor)
	return a, ok
}

// AuthMiddleware resolves the bearer token to an actor and enforces path
// scoping: a route carrying {userId} is only reachable by that user or an
// admin.
func AuthMiddleware(authorizer auth.Authorizer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearer(r)
			if err != nil {
				respond.WriteUnauthorized(w, err.Error())
				return
			}
			actor, err := authorizer.Authorize(r.Context(), token)
			if err != nil {
				respond.WriteUnauthorized(w, "invalid credentials")
				return
			}

			if pathUser := mux.Vars(r)["userId"]; pathUser != "" {
				if pathUser != actor.UserID && !actor.IsAdmin() {
					respond.WriteForbidden(w, "not allowed")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// RequireAdmin guards the admin subrouter. It runs after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.IsAdmin() {
			respond.WriteForbidden(w, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
