package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"MindWell/models"
	"MindWell/pkg/cache"
	"MindWell/pkg/config"
	"MindWell/pkg/logger"
	"MindWell/pkg/services"
	"MindWell/routes"
)

func main() {
	// config init via package init()
	defer logger.Sync()

	db, err := gorm.Open(sqlite.Open(config.DBPath), &gorm.Config{})
	if err != nil {
		logger.L().Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		logger.L().Fatalf("failed migrate: %v", err)
	}

	// absent delivery credentials are a configuration error, not a
	// per-request one
	mailer, err := services.NewMailer()
	if err != nil {
		logger.L().Fatalf("failed to init mailer: %v", err)
	}

	cache.Default().SetMaxItems(config.CompletionCacheMaxItems)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, mailer)

	logger.L().Infof("listening on :%s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		logger.L().Fatalf("server exited: %v", err)
	}
}
