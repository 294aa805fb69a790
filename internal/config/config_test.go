package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadWithEnv(t *testing.T, env map[string]string) error {
	t.Helper()

	for k, v := range env {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range env {
			os.Unsetenv(k)
		}
		viper.Reset()
		cfg = nil
	})

	cfg = nil
	return Load()
}

func TestLoad_WithDefaults(t *testing.T) {
	err := loadWithEnv(t, map[string]string{
		"MOVIEMEND_STORE_BASE_URL":   "https://store.example.com",
		"MOVIEMEND_CATALOG_BASE_URL": "https://catalog.example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	config := Get()
	if config.API.Port != 8080 {
		t.Errorf("expected default API port 8080, got %d", config.API.Port)
	}
	if config.Database.Path != "./data/moviemend.db" {
		t.Errorf("expected default database path, got %s", config.Database.Path)
	}
	if config.DetailFreshTTL() != time.Hour {
		t.Errorf("expected default fresh TTL of 1h, got %v", config.DetailFreshTTL())
	}
	if config.DetailMaxAge() != 24*time.Hour {
		t.Errorf("expected default max age of 24h, got %v", config.DetailMaxAge())
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected default log level 'info', got %s", config.Logging.Level)
	}
}

func TestLoad_MissingStoreURL(t *testing.T) {
	err := loadWithEnv(t, map[string]string{
		"MOVIEMEND_CATALOG_BASE_URL": "https://catalog.example.com",
	})
	if err == nil {
		t.Fatal("expected error for missing store.base_url, got nil")
	}
	if !strings.Contains(err.Error(), "store.base_url is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_AlternateEnvNames(t *testing.T) {
	err := loadWithEnv(t, map[string]string{
		"STORE_URL":   "https://store.example.com",
		"CATALOG_URL": "https://catalog.example.com",
		"API_PORT":    "9090",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	config := Get()
	if config.Store.BaseURL != "https://store.example.com" {
		t.Errorf("expected STORE_URL to bind store.base_url, got %s", config.Store.BaseURL)
	}
	if config.API.Port != 9090 {
		t.Errorf("expected API_PORT to bind api.port, got %d", config.API.Port)
	}
}

func TestLoad_InvalidFreshnessWindow(t *testing.T) {
	err := loadWithEnv(t, map[string]string{
		"MOVIEMEND_STORE_BASE_URL":            "https://store.example.com",
		"MOVIEMEND_CATALOG_BASE_URL":          "https://catalog.example.com",
		"MOVIEMEND_SYNC_DETAIL_FRESH_MINUTES": "2880",
		"MOVIEMEND_SYNC_DETAIL_MAX_AGE_HOURS": "24",
	})
	if err == nil {
		t.Fatal("expected error when fresh window exceeds max age, got nil")
	}
	if !strings.Contains(err.Error(), "detail_fresh_minutes must not exceed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	err := loadWithEnv(t, map[string]string{
		"MOVIEMEND_STORE_BASE_URL":   "https://store.example.com",
		"MOVIEMEND_CATALOG_BASE_URL": "https://catalog.example.com",
		"MOVIEMEND_LOGGING_LEVEL":    "verbose",
	})
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "logging.level must be one of") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogLevelPriority(t *testing.T) {
	c := &Config{
		Logging: LoggingConfig{
			Level: "warn",
			App:   LogLevelConfig{Level: "debug"},
		},
	}

	if got := c.GetAppLogLevel(); got != "debug" {
		t.Errorf("expected app level 'debug', got %s", got)
	}
	if got := c.GetCacheLogLevel(); got != "warn" {
		t.Errorf("expected cache level to fall back to 'warn', got %s", got)
	}

	empty := &Config{}
	if got := empty.GetAppLogLevel(); got != "info" {
		t.Errorf("expected fallback level 'info', got %s", got)
	}
}
