package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenFromRequest(t *testing.T) {
	t.Run("should read the bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token=query", nil)
		r.Header.Set("Authorization", "Bearer header")
		require.Equal(t, "header", TokenFromRequest(r))
	})

	t.Run("should fall back to the query parameter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token=query", nil)
		require.Equal(t, "query", TokenFromRequest(r))
	})

	t.Run("should ignore non bearer schemes", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		require.Empty(t, TokenFromRequest(r))
	})
}

func TestWithClaims(t *testing.T) {
	req := require.New(t)
	ctx := WithClaims(context.Background(), &CustomClaims{UserID: "u1", Login: "alice", Roles: []string{"user"}})

	login, ok := LoginFromContext(ctx)
	req.True(ok)
	req.Equal("alice", login)
	req.Equal("u1", ctx.Value(UserIDKey))
	req.Equal([]string{"user"}, ctx.Value(RolesKey))

	_, ok = LoginFromContext(context.Background())
	req.False(ok)
}
