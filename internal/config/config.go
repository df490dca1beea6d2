package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL   string
	RunMigrations bool

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port               string
	CORSOrigins        []string
	Env                string
	RateLimitPerMinute int

	// Reports
	ProjectionHorizonDays int
	ReportCacheSize       int

	// Alerts
	Alerts AlertConfig
}

// AlertConfig holds the runway alert settings. An empty AMQPURL disables the
// broker publisher, alerts still reach WebSocket clients.
type AlertConfig struct {
	AMQPURL       string
	AMQPExchange  string
	RunwayDays    int
	CheckInterval time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		RunMigrations:         getEnvBool("RUN_MIGRATIONS", true),
		Auth0Domain:           getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:         getEnv("AUTH0_AUDIENCE", ""),
		Port:                  getEnv("PORT", "8080"),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:                   getEnv("ENV", "development"),
		RateLimitPerMinute:    getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		ProjectionHorizonDays: getEnvInt("PROJECTION_HORIZON_DAYS", 90),
		ReportCacheSize:       getEnvInt("REPORT_CACHE_SIZE", 1000),
		Alerts: AlertConfig{
			AMQPURL:       getEnv("AMQP_URL", ""),
			AMQPExchange:  getEnv("AMQP_EXCHANGE", "fluxo.events"),
			RunwayDays:    getEnvInt("ALERT_RUNWAY_DAYS", 30),
			CheckInterval: getEnvDuration("ALERT_INTERVAL", time.Hour),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if c.ProjectionHorizonDays < 1 || c.ProjectionHorizonDays > 730 {
		return fmt.Errorf("PROJECTION_HORIZON_DAYS must be between 1 and 730")
	}
	if c.ReportCacheSize < 1 {
		return fmt.Errorf("REPORT_CACHE_SIZE must be positive")
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.Alerts.RunwayDays < 1 {
		return fmt.Errorf("ALERT_RUNWAY_DAYS must be positive")
	}
	if c.Alerts.CheckInterval < time.Minute {
		return fmt.Errorf("ALERT_INTERVAL must be at least 1m")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset. A value
// that does not parse yields -1 so validate rejects it.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
