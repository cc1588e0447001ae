package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
	"github.com/TanoojVardhan/sloth-planner/internal/store"
)

// UserService handles profile and role operations. The roles table is the
// single source of truth for privilege; a user with no row holds RoleUser.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// EnsureUser creates the profile on first sight of an identity, or returns
// the existing record. Sign-in flows call this after token verification.
func (s *UserService) EnsureUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if !strings.Contains(u.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email %q", model.ErrValidation, u.Email)
	}
	if existing, err := s.store.Users().Get(ctx, u.UserID); err == nil {
		return existing, nil
	}
	created, err := s.store.Users().Create(ctx, u)
	if err != nil {
		// two first sign-ins can race past the existence check; the loser's
		// insert hits the unique constraint, so re-read instead of surfacing it
		if existing, getErr := s.store.Users().Get(ctx, u.UserID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) UpdateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if u.TimeZone != "" {
		if _, err := time.LoadLocation(u.TimeZone); err != nil {
			return nil, fmt.Errorf("%w: unknown time zone %q", model.ErrValidation, u.TimeZone)
		}
	}
	return s.store.Users().Update(ctx, u)
}

// TouchLastActive records activity; failures are not surfaced to callers.
func (s *UserService) TouchLastActive(ctx context.Context, userID string) error {
	return s.store.Users().UpdateLastActive(ctx, userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.store.Users().Delete(ctx, userID)
}

// GetRole returns the user's role, defaulting to RoleUser when no row exists.
func (s *UserService) GetRole(ctx context.Context, userID string) (model.Role, error) {
	rec, err := s.store.Roles().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.RoleUser, nil
		}
		return "", err
	}
	return rec.Role, nil
}

// SetRole grants or revokes privilege. Only a super admin may assign
// super_admin; callers pass the actor's role for that check.
func (s *UserService) SetRole(ctx context.Context, actorRole model.Role, userID string, role model.Role) (*model.UserRole, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", model.ErrValidation, role)
	}
	if role == model.RoleSuperAdmin && actorRole != model.RoleSuperAdmin {
		return nil, model.ErrUnauthorized
	}
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Roles().Set(ctx, userID, role)
}
