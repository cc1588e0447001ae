// Package recovery converts downstream handler panics into the standard
// JSON 500 envelope instead of dropping the connection.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/TanoojVardhan/sloth-planner/internal/api/respond"
)

// Middleware returns a router middleware bound to the service logger.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")
					respond.WriteInternalError(w, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
