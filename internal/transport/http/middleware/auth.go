package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/drop-four/backend/internal/service/session"
	"github.com/dropfour/drop-four/backend/pkg/httputil"
)

// AuthMiddleware validates the JWT and its backing session row, then puts
// the caller's identity on the gin context
func AuthMiddleware(authService *session.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			httputil.ClearAuthCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// UserID reads the authenticated user ID set by AuthMiddleware
func UserID(c *gin.Context) int64 {
	id, _ := c.Get("user_id")
	userID, _ := id.(int64)
	return userID
}

// Username reads the authenticated username set by AuthMiddleware
func Username(c *gin.Context) string {
	name, _ := c.Get("username")
	username, _ := name.(string)
	return username
}
