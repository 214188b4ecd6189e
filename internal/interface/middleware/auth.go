package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	TokenHeader  = "x-auth-token"
)

// tokenFromRequest prefers x-auth-token and falls back to a Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(TokenHeader)); t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth verifies the bearer token and sets userID in the Gin context.
// It keeps no state; the token alone decides.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "No token, authorization denied!", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid Token, Access Denied!", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the caller set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
