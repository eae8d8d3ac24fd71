// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/zapponejosh/audioreader-api/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // SQLite file holding the lookup tables

	// Authentication
	APIKey string // API key for /api/v1 endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Station
	ScheduleURL     string        // weekly schedule feed
	ArchiveURL      string        // on-demand archive base, ends in "/"
	StreamURL       string        // live stream playlist
	KCStreamURL     string        // Kansas City stream playlist
	StationTimezone string        // IANA zone the schedule is published in
	StationName     string        // spoken station name
	FetchTimeout    time.Duration // feed HTTP timeout

	// Rate limiting
	RateLimitPerMinute int // per-IP requests; 0 disables
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults for the station settings.
const (
	DefaultScheduleURL = "https://portal.kansaspublicradio.org/widgets/audio-reader/ar-data.json"
	DefaultArchiveURL  = "https://ondemand.audioreader.net/archive/"
	DefaultStreamURL   = "https://portal.kansaspublicradio.org/audioreader.m3u"
	DefaultKCStreamURL = "https://portal.kansaspublicradio.org/audioreaderkc.m3u"
	DefaultStationName = "Audio Reader"
)

var validate = validator.New()

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// No-op in production where env vars are set directly.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/audioreader.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Station
	cfg.ScheduleURL = getEnv("SCHEDULE_URL", DefaultScheduleURL)
	cfg.ArchiveURL = getEnv("ARCHIVE_URL", DefaultArchiveURL)
	cfg.StreamURL = getEnv("STREAM_URL", DefaultStreamURL)
	cfg.KCStreamURL = getEnv("KC_STREAM_URL", DefaultKCStreamURL)
	cfg.StationTimezone = getEnv("STATION_TIMEZONE", calendar.DefaultStationZone)
	cfg.StationName = getEnv("STATION_NAME", DefaultStationName)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)

	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 120)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	for name, value := range map[string]string{
		"SCHEDULE_URL":  c.ScheduleURL,
		"STREAM_URL":    c.StreamURL,
		"KC_STREAM_URL": c.KCStreamURL,
	} {
		if err := validate.Var(value, "required,http_url"); err != nil {
			errs = append(errs, fmt.Errorf("%s must be an http(s) URL, got %q", name, value))
		}
	}

	if err := validate.Var(c.ArchiveURL, "required,http_url,startswith=https://,endswith=/"); err != nil {
		errs = append(errs, fmt.Errorf("ARCHIVE_URL must be an https URL ending in /, got %q", c.ArchiveURL))
	}

	if _, err := calendar.LoadStationLocation(c.StationTimezone); err != nil {
		errs = append(errs, fmt.Errorf("STATION_TIMEZONE: %w", err))
	}

	if strings.TrimSpace(c.StationName) == "" {
		errs = append(errs, errors.New("STATION_NAME is required"))
	}

	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}

	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Location loads the station time zone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadStationLocation(c.StationTimezone)
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a Go duration with a default fallback.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
