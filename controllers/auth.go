package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"MindWell/pkg/logger"
	"MindWell/pkg/store"
	"MindWell/pkg/token"
)

// Signup handler
func Signup(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Gender   string `json:"gender"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
			return
		}
		if strings.TrimSpace(body.Email) == "" || body.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email and password are required"})
			return
		}

		user, err := users.Register(body.FullName, body.Email, body.Password, body.Gender)
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
			return
		}
		if err != nil {
			logger.L().Errorf("[auth] signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create user"})
			return
		}

		// the password digest is never re-exposed
		c.JSON(http.StatusCreated, gin.H{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
		})
	}
}

// Token handler: form credentials in, bearer token out.
func Token(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("username")
		password := c.PostForm("password")
		if email == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
			return
		}

		user, err := users.Authenticate(email, password)
		if err != nil {
			// uniform response for unknown email and wrong password
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
			return
		}

		tok, err := token.Issue(user.Email)
		if err != nil {
			logger.L().Errorf("[auth] token signing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": tok, "token_type": "bearer"})
	}
}
