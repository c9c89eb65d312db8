package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// B3 settlement bulletin
	B3 B3Config

	// Trading calendar
	Calendar CalendarConfig

	// Collection pipeline
	Collect CollectConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// B3Config holds the B3 settlement bulletin endpoint configuration
type B3Config struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// CalendarConfig selects where the trading calendar comes from.
// Source "builtin" generates the B3 calendar from holiday rules;
// "database" loads business days from the calendar table.
type CalendarConfig struct {
	Source   string
	Exchange string
}

// CollectConfig holds the product list for the daily collection pipeline.
// Products maps a commodity code to its expiry convention selector,
// e.g. DI1 -> prim_du, DAP -> dia_15.
type CollectConfig struct {
	Products map[string]string
	Schedule string // cron expression for the daily job
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		B3: B3Config{
			BaseURL:           getEnv("B3_BASE_URL", "https://www2.bmf.com.br/pages/portal/bmfbovespa/boletim1/Ajustes1.asp"),
			RequestsPerSecond: getEnvAsFloat("B3_REQUESTS_PER_SECOND", 2.0),
			Timeout:           getEnvAsDuration("B3_TIMEOUT", "30s"),
		},

		Calendar: CalendarConfig{
			Source:   getEnv("CALENDAR_SOURCE", "builtin"),
			Exchange: getEnv("CALENDAR_EXCHANGE", "BMF"),
		},

		Collect: CollectConfig{
			Products: parseProducts(getEnv("COLLECT_PRODUCTS", "DI1:prim_du,DAP:dia_15")),
			Schedule: getEnv("COLLECT_SCHEDULE", "0 0 20 * * MON-FRI"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Calendar.Source != "builtin" && c.Calendar.Source != "database" {
		return fmt.Errorf("CALENDAR_SOURCE must be builtin or database")
	}

	// The database URL is required when the calendar comes from the database
	if c.Calendar.Source == "database" && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when CALENDAR_SOURCE=database")
	}

	if len(c.Collect.Products) == 0 {
		return fmt.Errorf("COLLECT_PRODUCTS must name at least one product")
	}

	return nil
}

// parseProducts parses "DI1:prim_du,DAP:dia_15" into a product -> convention map.
// Malformed entries are skipped; validation of the convention names happens
// where the batch is applied.
func parseProducts(s string) map[string]string {
	products := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		conv := strings.TrimSpace(parts[1])
		if code == "" || conv == "" {
			continue
		}
		products[code] = conv
	}
	return products
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
