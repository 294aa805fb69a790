package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Store    StoreConfig    `mapstructure:"store"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig holds the local cache database settings
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig holds remote watchlist store settings
type StoreConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CatalogConfig holds movie catalog proxy settings
type CatalogConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryAttempts  int    `mapstructure:"retry_attempts"`
}

// SyncConfig holds cache-aware query layer settings
type SyncConfig struct {
	// DetailFreshMinutes is the window inside which a cached movie detail
	// short-circuits the network call even while online
	DetailFreshMinutes int `mapstructure:"detail_fresh_minutes"`
	// DetailMaxAgeHours is the window inside which a cached movie detail is
	// still served while a background refresh runs
	DetailMaxAgeHours int `mapstructure:"detail_max_age_hours"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string         `mapstructure:"level"`
	App   LogLevelConfig `mapstructure:"app"`
	Cache LogLevelConfig `mapstructure:"cache"`
}

// LogLevelConfig represents log level configuration for a specific component
type LogLevelConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

var cfg *Config

// bindEnvWithAlternatives binds a viper key to environment variables with
// alternative names, so both MOVIEMEND_STORE_BASE_URL and STORE_URL work
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from file and environment variables
func Load() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/moviemend")

	setDefaults()

	viper.SetEnvPrefix("MOVIEMEND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("database.path", "DB_PATH")

	bindEnvWithAlternatives("api.port", "API_PORT")
	viper.BindEnv("api.cors_origins")

	bindEnvWithAlternatives("store.base_url", "STORE_URL")
	bindEnvWithAlternatives("store.api_key", "STORE_API_KEY")
	viper.BindEnv("store.timeout_seconds")

	bindEnvWithAlternatives("catalog.base_url", "CATALOG_URL")
	bindEnvWithAlternatives("catalog.api_key", "CATALOG_API_KEY")
	viper.BindEnv("catalog.timeout_seconds")
	viper.BindEnv("catalog.retry_attempts")

	viper.BindEnv("sync.detail_fresh_minutes")
	viper.BindEnv("sync.detail_max_age_hours")

	bindEnvWithAlternatives("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.app.level")
	viper.BindEnv("logging.cache.level")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		return &Config{}
	}
	return cfg
}

func setDefaults() {
	viper.SetDefault("database.path", "./data/moviemend.db")

	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.cors_origins", []string{"*"})

	viper.SetDefault("store.timeout_seconds", 10)
	viper.SetDefault("catalog.timeout_seconds", 10)
	viper.SetDefault("catalog.retry_attempts", 3)

	viper.SetDefault("sync.detail_fresh_minutes", 60)
	viper.SetDefault("sync.detail_max_age_hours", 24)

	viper.SetDefault("logging.level", "info")
}

func validate() error {
	if cfg.Store.BaseURL == "" {
		return fmt.Errorf("store.base_url is required")
	}
	if cfg.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if cfg.Sync.DetailFreshMinutes <= 0 {
		return fmt.Errorf("sync.detail_fresh_minutes must be positive")
	}
	if cfg.Sync.DetailMaxAgeHours <= 0 {
		return fmt.Errorf("sync.detail_max_age_hours must be positive")
	}
	if time.Duration(cfg.Sync.DetailFreshMinutes)*time.Minute > time.Duration(cfg.Sync.DetailMaxAgeHours)*time.Hour {
		return fmt.Errorf("sync.detail_fresh_minutes must not exceed sync.detail_max_age_hours")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

	if cfg.Logging.Level != "" && !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if cfg.Logging.App.Level != "" && !validLevels[cfg.Logging.App.Level] {
		return fmt.Errorf("logging.app.level must be one of: debug, info, warn, error")
	}
	if cfg.Logging.Cache.Level != "" && !validLevels[cfg.Logging.Cache.Level] {
		return fmt.Errorf("logging.cache.level must be one of: debug, info, warn, error")
	}

	return nil
}

// GetAppLogLevel returns the log level for application logging.
// Priority: logging.app.level, then logging.level, then "info".
func (c *Config) GetAppLogLevel() string {
	if c.Logging.App.Level != "" {
		return c.Logging.App.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// GetCacheLogLevel returns the log level for cache database logging.
// Priority: logging.cache.level, then logging.level, then "info".
func (c *Config) GetCacheLogLevel() string {
	if c.Logging.Cache.Level != "" {
		return c.Logging.Cache.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// DetailFreshTTL returns the movie-detail freshness window as a duration
func (c *Config) DetailFreshTTL() time.Duration {
	return time.Duration(c.Sync.DetailFreshMinutes) * time.Minute
}

// DetailMaxAge returns the movie-detail keep window as a duration
func (c *Config) DetailMaxAge() time.Duration {
	return time.Duration(c.Sync.DetailMaxAgeHours) * time.Hour
}

// StoreTimeout returns the remote store request timeout as a duration
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Store.TimeoutSeconds) * time.Second
}

// CatalogTimeout returns the catalog proxy request timeout as a duration
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}
