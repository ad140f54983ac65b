package api

import (
	"cool-chat/auth"
	"cool-chat/errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const loginKey = "login"

// authMiddleware requires a valid bearer token and stores the claims in the request context.
func authMiddleware(authn interface {
	Authenticate(token string) (*auth.CustomClaims, error)
}) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromRequest(c.Request)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "missing token")
			return
		}
		claims, err := authn.Authenticate(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHENTICATED", errors.ErrInvalidToken.Error())
			return
		}
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Set(loginKey, claims.Login)
		c.Next()
	}
}
