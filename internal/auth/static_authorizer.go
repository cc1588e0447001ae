package auth

import (
	"context"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

const (
	// LocalDevToken is recognized by the static authorizer in local builds only.
	LocalDevToken = "sp_local_dev_token"

	// LocalDevAdminToken resolves to an admin actor in local builds only.
	LocalDevAdminToken = "sp_local_dev_admin_token"
)

// StaticAuthorizer resolves a fixed set of tokens. Local development only;
// cloud builds always use the provider-backed authorizer.
type StaticAuthorizer struct {
	actors map[string]Actor
}

// NewStaticAuthorizer returns an authorizer that recognizes the two local
// development tokens.
func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{actors: map[string]Actor{
		LocalDevToken: {
			UserID: "local-dev",
			Email:  "dev@localhost",
			Role:   model.RoleUser,
		},
		LocalDevAdminToken: {
			UserID: "local-admin",
			Email:  "admin@localhost",
			Role:   model.RoleSuperAdmin,
		},
	}}
}

func (s *StaticAuthorizer) Authorize(_ context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	a, ok := s.actors[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	out := a
	return &out, nil
}
