package auth

import (
	"context"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

// Actor is the authenticated caller resolved from a bearer token.
type Actor struct {
	UserID      string     `json:"userId"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	PhotoURL    string     `json:"photoUrl,omitempty"`
	Role        model.Role `json:"role"`
}

// IsAdmin reports whether the actor may use the admin surface.
func (a *Actor) IsAdmin() bool { return a.Role.IsAdmin() }

// Authorizer verifies a bearer token and resolves the caller in one call.
type Authorizer interface {
	// Authorize returns the actor for a valid token, or an error when the
	// token is missing, malformed, expired or revoked.
	Authorize(ctx context.Context, token string) (*Actor, error)
}
