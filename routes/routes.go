package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"MindWell/middleware"
	"MindWell/pkg/services"
	"MindWell/pkg/store"

	authRoutes "MindWell/routes/auth"
	convRoutes "MindWell/routes/conversation"
	generateRoutes "MindWell/routes/generate"
	otpRoutes "MindWell/routes/otp"
	usersRoutes "MindWell/routes/users"
	websocketRoutes "MindWell/routes/websocket"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, mailer *services.Mailer) {
	users := store.NewUserStore(db)
	convs := store.NewConversationStore(db)
	ai := services.NewGeminiService()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend is running"})
	})

	authRoutes.RegisterPublic(r, users)
	otpRoutes.Register(r, mailer)
	websocketRoutes.Register(r, users, convs, ai)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(users))
	usersRoutes.Register(protected)
	generateRoutes.Register(protected, convs, ai)
	convRoutes.Register(protected, convs)
}
