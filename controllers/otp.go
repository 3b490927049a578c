package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"MindWell/pkg/logger"
	"MindWell/pkg/services"
	utils "MindWell/pkg/utills"
)

// SendOTP generates a 6-digit code and mails it. Codes are not persisted,
// so there is nothing to verify against later; the code never appears in
// the response.
func SendOTP(mailer *services.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "email is required"})
			return
		}

		code := utils.OTPCode()
		if err := mailer.SendOTP(c.Request.Context(), body.Email, code); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to send OTP"})
			return
		}
		logger.L().Debugf("[otp] issued code for %s", body.Email)
		c.JSON(http.StatusOK, gin.H{"status": "OTP sent"})
	}
}
