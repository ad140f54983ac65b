package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	LoginKey  contextKey = "login"
	RolesKey  contextKey = "roles"
)

// TokenFromRequest extracts a bearer token from the Authorization header,
// falling back to the "token" query parameter browsers must use for WebSocket upgrades.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// WithClaims injects the user identity into ctx for downstream layers.
func WithClaims(ctx context.Context, claims *CustomClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, LoginKey, claims.Login)
	return context.WithValue(ctx, RolesKey, claims.Roles)
}

func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginKey).(string)
	return login, ok && login != ""
}
