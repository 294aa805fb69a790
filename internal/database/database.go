package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/config"
	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

// Initialize opens the local cache database and runs migrations. The cache
// lives in an embedded SQLite file so it survives process restarts.
func Initialize() error {
	cfg := config.Get()

	dir := filepath.Dir(cfg.Database.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gormLogger := logger.NewGormAdapter(logger.CacheLogger(), cfg.GetCacheLogLevel())

	var err error
	db, err = gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// The cache is a single process-wide resource accessed through one
	// connection; SQLite serializes writes anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Get returns the database instance
func Get() *gorm.DB {
	return db
}

// HealthCheck verifies cache database connectivity
func HealthCheck() error {
	if db == nil {
		return errors.New(errors.CodeInternal, "cache database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("cache database ping failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

func runMigrations() error {
	return db.AutoMigrate(
		&cache.Record{},
	)
}
