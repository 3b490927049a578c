package auth

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
	"MindWell/pkg/store"
)

// RegisterPublic registers public auth routes: /signup, /token
func RegisterPublic(r *gin.Engine, users *store.UserStore) {
	r.POST("/signup", controllers.Signup(users))
	r.POST("/token", controllers.Token(users))
}
