// Package config reads the settings of secuofx from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MaxAttempts is the largest number of calls allowed per source.
const MaxAttempts = 10

// Config holds application configuration
type Config struct {
	MaxAttempts  int           // calls per source before giving up on it
	BaseDelay    time.Duration // wait after the first failed call, doubled after each one
	CallTimeout  time.Duration // limit of a single source call
	Concurrency  int           // identifiers resolved in parallel
	LookbackDays int           // days before the target date where a price is accepted

	AccountID      string
	YahooBaseURL   string
	ToushinBaseURL string

	LogLevel  string
	LogPretty bool
}

// Load reads configuration from the .env files, if they exist, and then from
// environment variables. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{
		MaxAttempts:    getEnvAsInt("SECUOFX_MAX_ATTEMPTS", 3),
		BaseDelay:      getEnvAsDuration("SECUOFX_BASE_DELAY", time.Second),
		CallTimeout:    getEnvAsDuration("SECUOFX_CALL_TIMEOUT", 15*time.Second),
		Concurrency:    getEnvAsInt("SECUOFX_CONCURRENCY", 4),
		LookbackDays:   getEnvAsInt("SECUOFX_LOOKBACK_DAYS", 7),
		AccountID:      getEnv("SECUOFX_ACCOUNT_ID", "00000"),
		YahooBaseURL:   getEnv("YAHOO_BASE_URL", ""),
		ToushinBaseURL: getEnv("TOUSHIN_BASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnvAsBool("LOG_PRETTY", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the values are usable.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxAttempts {
		return fmt.Errorf("SECUOFX_MAX_ATTEMPTS must be between 1 and %d, got %d", MaxAttempts, c.MaxAttempts)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("SECUOFX_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if c.BaseDelay < 0 {
		return fmt.Errorf("SECUOFX_BASE_DELAY must not be negative, got %v", c.BaseDelay)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("SECUOFX_CALL_TIMEOUT must be positive, got %v", c.CallTimeout)
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("SECUOFX_LOOKBACK_DAYS must not be negative, got %d", c.LookbackDays)
	}
	if c.AccountID == "" {
		return fmt.Errorf("SECUOFX_ACCOUNT_ID is required")
	}
	return nil
}

// Helper functions
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
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("1500ms") or a number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
