package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/response"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*helpers.Claims, error)
}

// UserIDFrom returns the authenticated user id stored by Auth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the Authorization bearer token.
// It sets userID and userName in the Gin context and the user id in the request context.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Token is not valid")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userName", claims.Name)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey, claims.UserID))
		c.Next()
	}
}
