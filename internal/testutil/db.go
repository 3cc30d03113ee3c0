// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"notifyhub/config"
	"notifyhub/internal/database"
	"notifyhub/internal/models"

	"gorm.io/gorm"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// It is closed automatically when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewDB(&config.DatabaseConfig{Driver: database.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given email and full name.
func CreateUser(t *testing.T, db *gorm.DB, email, fullName string) *models.User {
	t.Helper()

	u := &models.User{Email: email, FullName: fullName, IsActive: true}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return u
}
