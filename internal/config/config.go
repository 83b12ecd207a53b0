package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	JWT      JWTConfig
	Export   ExportConfig
	Storage  StorageConfig
	View     ViewConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	FrontendURL []string
}

// UpstreamConfig points at the attendance REST backend this service fronts.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type ExportConfig struct {
	Format     string
	DateLayout string
	// Retention is how long stored export files are kept.
	Retention time.Duration
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// ViewConfig controls how long an idle attendance matrix stays cached.
type ViewConfig struct {
	IdleTimeout   time.Duration
	EvictInterval time.Duration
}

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// Load reads the server configuration.
func Load() (*Config, error) {
	config, err := read()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadClient reads the configuration for tools that only talk to the
// backend and never issue tokens of their own.
func LoadClient() (*Config, error) {
	config, err := read()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateClient(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func read() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Local"),
		FrontendURL: getEnvSlice("FRONTEND_URL", "http://localhost:3000"),
	}

	upstreamTimeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	config.Upstream = UpstreamConfig{
		BaseURL: strings.TrimRight(getEnv("UPSTREAM_BASE_URL", "http://localhost:4000/api"), "/"),
		Timeout: upstreamTimeout,
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	retention, err := time.ParseDuration(getEnv("EXPORT_RETENTION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_RETENTION: %w", err)
	}

	config.Export = ExportConfig{
		Format:     strings.ToLower(getEnv("EXPORT_FORMAT", ExportFormatXLSX)),
		DateLayout: getEnv("EXPORT_DATE_LAYOUT", "2006-01-02"),
		Retention:  retention,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/files"),
	}

	idleTimeout, err := time.ParseDuration(getEnv("VIEW_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIEW_IDLE_TIMEOUT: %w", err)
	}
	evictInterval, err := time.ParseDuration(getEnv("VIEW_EVICT_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid VIEW_EVICT_INTERVAL: %w", err)
	}

	config.View = ViewConfig{
		IdleTimeout:   idleTimeout,
		EvictInterval: evictInterval,
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	return c.ValidateClient()
}

// ValidateClient checks what every caller of the backend needs.
func (c *Config) ValidateClient() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.Export.Format != ExportFormatXLSX && c.Export.Format != ExportFormatCSV {
		return fmt.Errorf("EXPORT_FORMAT must be %q or %q", ExportFormatXLSX, ExportFormatCSV)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves APP_TIMEZONE, used to turn upstream timestamps into civil days.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
