package users

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
)

// Register registers protected identity routes on supplied router group
// expects the group to already have AuthMiddleware applied
func Register(g *gin.RouterGroup) {
	g.GET("/users/me", controllers.Me())
}
