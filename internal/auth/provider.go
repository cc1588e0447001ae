package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

// RoleResolver maps a verified identity to its stored role.
// services.UserService.GetRole satisfies this.
type RoleResolver func(ctx context.Context, userID string) (model.Role, error)

// ProviderAuthorizer verifies bearer tokens against an external identity
// provider's userinfo endpoint and resolves the role from local storage.
type ProviderAuthorizer struct {
	client *resty.Client
	roles  RoleResolver
}

// NewProviderAuthorizer creates an authorizer backed by the identity provider
// at baseURL. The provider must expose GET /userinfo accepting a bearer token.
func NewProviderAuthorizer(baseURL string, roles RoleResolver) *ProviderAuthorizer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	return &ProviderAuthorizer{client: client, roles: roles}
}

type userinfoResponse struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Ping probes provider reachability. Any HTTP response counts as healthy;
// an unauthenticated userinfo call is expected to come back 401.
func (p *ProviderAuthorizer) Ping(ctx context.Context) error {
	_, err := p.client.R().SetContext(ctx).Get("/userinfo")
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	return nil
}

func (p *ProviderAuthorizer) Authorize(ctx context.Context, token string) (*Actor, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	var info userinfoResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&info).
		Get("/userinfo")
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.IsError() {
		return nil, fmt.Errorf("identity provider returned %d", resp.StatusCode())
	}
	if info.Sub == "" {
		return nil, ErrInvalidToken
	}

	role := model.RoleUser
	if p.roles != nil {
		r, err := p.roles(ctx, info.Sub)
		if err != nil {
			return nil, fmt.Errorf("resolve role: %w", err)
		}
		role = r
	}

	return &Actor{
		UserID:      info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
		Role:        role,
	}, nil
}
