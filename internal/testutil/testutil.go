// Package testutil builds throwaway dependencies for package tests.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/database"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens a migrated in-memory SQLite database private to t.
func NewDatabase(t testing.TB) *database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and serialises transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return database.New(db, config.DatabaseConfig{QueryTimeout: 5 * time.Second})
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func AuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret-0123456789abcdef0123456789",
		Issuer:          "movie-catalog-test",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: time.Hour,
		BcryptCost:      4,
	}
}
