package otp

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
	"MindWell/pkg/services"
)

// Register registers the public OTP route
func Register(r *gin.Engine, mailer *services.Mailer) {
	r.POST("/send-otp", controllers.SendOTP(mailer))
}
