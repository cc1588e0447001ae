package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanoojVardhan/sloth-planner/internal/model"
)

func TestExtractBearer(t *testing.T) {
	mk := func(h string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			r.Header.Set("Authorization", h)
		}
		return r
	}

	tok, err := ExtractBearer(mk("Bearer abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	// scheme comparison is case-insensitive
	tok, err = ExtractBearer(mk("bearer abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	_, err = ExtractBearer(mk(""))
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ExtractBearer(mk("Basic dXNlcg=="))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ExtractBearer(mk("Bearer"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStaticAuthorizer(t *testing.T) {
	ctx := context.Background()
	a := NewStaticAuthorizer()

	actor, err := a.Authorize(ctx, LocalDevToken)
	require.NoError(t, err)
	assert.Equal(t, "local-dev", actor.UserID)
	assert.False(t, actor.IsAdmin())

	admin, err := a.Authorize(ctx, LocalDevAdminToken)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, err = a.Authorize(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProviderAuthorizer(t *testing.T) {
	ctx := context.Background()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"sub": "u-42", "email": "u42@example.com", "name": "Forty Two",
			})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer provider.Close()

	roles := func(_ context.Context, userID string) (model.Role, error) {
		if userID == "u-42" {
			return model.RoleAdmin, nil
		}
		return model.RoleUser, nil
	}

	a := NewProviderAuthorizer(provider.URL, roles)

	actor, err := a.Authorize(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "u-42", actor.UserID)
	assert.Equal(t, "u42@example.com", actor.Email)
	assert.Equal(t, model.RoleAdmin, actor.Role)

	_, err = a.Authorize(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Authorize(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)
}
