package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr               string
	Environment        string
	DatabaseURL        string
	RunMigrations      bool
	MigrationsDir      string
	VariantsFile       string
	DefaultVariant     string
	ReportTitle        string
	ReportLogoPath     string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	LogLevel           string
	LogFormat          string
	AuditRetention     time.Duration
	AuditPruneInterval time.Duration
}

func Load() Config {
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		VariantsFile:       getEnv("VARIANTS_FILE", ""),
		DefaultVariant:     getEnv("DEFAULT_VARIANT", ""),
		ReportTitle:        getEnv("REPORT_TITLE", "Employee Self-Assessment Report"),
		ReportLogoPath:     getEnv("REPORT_LOGO_PATH", ""),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "json")),
		AuditRetention:     getEnvDuration("AUDIT_RETENTION", 365*24*time.Hour),
		AuditPruneInterval: getEnvDuration("AUDIT_PRUNE_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// AuditEnabled reports whether report generations are written to Postgres.
func (c Config) AuditEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("APP_ADDR is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}
	if c.AuditEnabled() && c.RunMigrations && strings.TrimSpace(c.MigrationsDir) == "" {
		return fmt.Errorf("MIGRATIONS_DIR is required when RUN_MIGRATIONS is true")
	}
	if c.AuditRetention < 0 || c.AuditPruneInterval < 0 {
		return fmt.Errorf("AUDIT_RETENTION and AUDIT_PRUNE_INTERVAL must not be negative")
	}
	if c.Environment == "production" && c.ReportLogoPath != "" {
		if _, err := os.Stat(c.ReportLogoPath); err != nil {
			return fmt.Errorf("REPORT_LOGO_PATH is not readable: %w", err)
		}
	}
	return nil
}
