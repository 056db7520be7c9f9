// internal/services/services_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/restitch/restitch-backend/internal/config"
	"github.com/restitch/restitch-backend/internal/models"
)

// setupTestDB opens an isolated in-memory SQLite database and migrates the
// schema. A single connection keeps concurrent transactions serialized the
// way a server-side store would.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Product{},
		&models.Bid{},
		&models.Conversation{},
		&models.Message{},
		&models.AuditLog{},
	)
	require.NoError(t, err)

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 24,
		},
		Email: config.EmailConfig{
			FromEmail: "noreply@test.local",
			FromName:  "Test",
		},
		Frontend: config.FrontendConfig{
			BaseURL: "http://localhost:3000",
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		FullName:         "Test User",
		Email:            email,
		Role:             role,
		EmailConfirmedAt: &now,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, creatorID uuid.UUID, status models.ProductStatus) *models.Product {
	t.Helper()

	product := &models.Product{
		CreatorID:   creatorID,
		Title:       "Worn out armchair",
		Description: "Needs new fabric and padding",
		Price:       120.50,
		Status:      status,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func principalOf(user *models.User) *models.Principal {
	return &models.Principal{UserID: user.ID, Role: user.Role}
}
