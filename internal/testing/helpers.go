package testing

import (
	"testing"
	"time"

	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/logger"
	"github.com/moviemend/moviemend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB creates an in-memory SQLite database with the cache schema
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := db.AutoMigrate(&cache.Record{}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// TestCacheStore creates a cache store over an in-memory database
func TestCacheStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.NewStore(TestDB(t), logger.NewWithLevel("error"))
}

// WatchlistEntry builds a test watchlist entry with sensible defaults
func WatchlistEntry(movieID int, title string, overrides ...func(*models.WatchlistEntry)) models.WatchlistEntry {
	entry := models.WatchlistEntry{
		ID:         "entry-test",
		UserID:     "user-1",
		MovieID:    movieID,
		MovieTitle: title,
		Status:     models.StatusWantToWatch,
		AddedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(&entry)
	}

	return entry
}

// MovieDetail builds a test movie detail payload with sensible defaults
func MovieDetail(movieID int, title string, overrides ...func(*models.MovieDetail)) models.MovieDetail {
	detail := models.MovieDetail{
		Movie: models.Movie{
			ID:          movieID,
			Title:       title,
			Overview:    "Test overview",
			ReleaseDate: "2010-07-16",
			VoteAverage: 8.3,
		},
		Runtime: 148,
		Genres:  []models.Genre{{ID: 28, Name: "Action"}},
	}

	for _, override := range overrides {
		override(&detail)
	}

	return detail
}
