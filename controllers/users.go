package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"MindWell/middleware"
)

// Me returns the authenticated caller's identity.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
		})
	}
}
