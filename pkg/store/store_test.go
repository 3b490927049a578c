package store

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"MindWell/models"
)

// newTestDB opens a private in-memory sqlite database and migrates the
// schema. cache=shared keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func registerTestUser(t *testing.T, users *UserStore, email string) *models.User {
	t.Helper()
	u, err := users.Register("Test User", email, "s3cret-pass", "other")
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return u
}
