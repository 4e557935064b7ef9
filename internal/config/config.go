// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	ErrInvalidStartDate = errors.New("invalid start date")
	ErrInvalidEndDate   = errors.New("invalid end date")
)

// DefaultLookback is how many days before the end date a run starts when
// no start date is given.
const DefaultLookback = 5

// DatabaseConfig holds the connection settings of the target database.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns URL when set and a key/value connection string otherwise.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Config is the environment configuration of the shopsim command. Flags
// override individual fields.
type Config struct {
	Database     DatabaseConfig
	LogLevel     string
	LogFormat    string
	ServiceName  string
	OTLPEndpoint string
	// Seed is nil when SHOPSIM_SEED is unset.
	Seed     *uint64
	Products int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	var seed *uint64
	if v := os.Getenv("SHOPSIM_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SHOPSIM_SEED: %w", err)
		}
		seed = &n
	}

	products, err := strconv.Atoi(getEnv("SHOPSIM_PRODUCTS", "1000"))
	if err != nil || products <= 0 {
		return nil, fmt.Errorf("invalid SHOPSIM_PRODUCTS %q", os.Getenv("SHOPSIM_PRODUCTS"))
	}

	return &Config{
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "shopsim"),
			Password: getEnv("DB_PASSWORD", "shopsim"),
			Name:     getEnv("DB_NAME", "shopsim"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		ServiceName:  getEnv("SHOPSIM_SERVICE_NAME", "shopsim"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Seed:         seed,
		Products:     products,
	}, nil
}

// ParseEndDate parses a YYYY-MM-DD end date. An empty value means today.
func ParseEndDate(s string, today time.Time) (time.Time, error) {
	if s == "" {
		return dateOf(today), nil
	}
	end, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidEndDate, s)
	}
	return end, nil
}

// ParseStartDate parses a YYYY-MM-DD start date. An empty value means
// DefaultLookback days before end. A start after end is rejected.
func ParseStartDate(s string, end time.Time) (time.Time, error) {
	end = dateOf(end)
	if s == "" {
		return end.AddDate(0, 0, -DefaultLookback), nil
	}

	start, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidStartDate, s)
	}
	if start.After(end) {
		return time.Time{}, fmt.Errorf("%w: %s is after %s", ErrInvalidStartDate, s, end.Format(time.DateOnly))
	}
	return start, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
