package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"MindWell/models"
	"MindWell/pkg/store"
	"MindWell/pkg/token"
)

const ContextUserKey = "current_user"

// CurrentUser returns the user resolved by AuthMiddleware for this request.
func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get(ContextUserKey)
	u, _ := v.(*models.User)
	return u
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
}

// AuthMiddleware resolves the bearer token to a user record. Every failure
// (missing header, bad token, expired token, deleted account) is the same
// 401 with a bearer challenge.
func AuthMiddleware(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			abortUnauthorized(c)
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortUnauthorized(c)
			return
		}

		email, err := token.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.FindByEmail(email)
		if err != nil {
			// account may have been deleted after the token was issued
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}
