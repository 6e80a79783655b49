package config

import (
	"os"
	"strconv"
	"time"

	"github.com/docforge/pdfutils/internal/common"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
	Watch    WatchConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the usage/history store configuration. The DSN is
// either a postgres URL or a sqlite file path (the default).
type DatabaseConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// AnalysisConfig holds engine tuning knobs.
type AnalysisConfig struct {
	MaxPages     int    // leading pages fed to text extraction
	RulesPath    string // optional rules file overriding the shipped tables
	DayFirst     bool   // interpret ambiguous D/M numeric dates day-first
	CacheEntries int    // extracted-text LRU size
}

// WatchConfig holds directory-watch configuration.
type WatchConfig struct {
	Dir      string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			DSN:         getEnv("DB_URL", "pdfutils.db"),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Analysis: AnalysisConfig{
			MaxPages:     getEnvAsInt("PDFUTILS_MAX_PAGES", 3),
			RulesPath:    getEnv("PDFUTILS_RULES_PATH", ""),
			DayFirst:     getEnvAsBool("PDFUTILS_DATE_DAY_FIRST", false),
			CacheEntries: getEnvAsInt("PDFUTILS_TEXT_CACHE", 64),
		},
		Watch: WatchConfig{
			Dir:      getEnv("PDFUTILS_WATCH_DIR", ""),
			Debounce: getEnvAsDuration("PDFUTILS_WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return common.NewAppError("CONFIG_ERROR", "DB_URL is required", common.ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return common.NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", common.ErrInvalidInput)
	}
	if c.Analysis.MaxPages <= 0 {
		return common.NewAppError("CONFIG_ERROR", "PDFUTILS_MAX_PAGES must be positive", common.ErrInvalidInput)
	}
	return nil
}
