package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	AdminSecret string

	// Application
	AppEnv      string
	LogLevel    string
	SeedQuizzes bool

	// Front ends
	ConsoleEnabled bool
	TCPAddr        string
	WSAddr         string

	// Rate Limiting
	RateLimitPerIP  int
	RateLimitWindow time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "quizzes.sqlite"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "quizline"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizline_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AdminSecret: getEnv("ADMIN_SECRET_KEY", ""),

		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SeedQuizzes: getEnvBool("SEED_QUIZZES", true),

		ConsoleEnabled: getEnvBool("CONSOLE_ENABLED", true),
		TCPAddr:        getEnv("TCP_ADDR", ":3030"),
		WSAddr:         getEnv("WS_ADDR", ""),

		RateLimitPerIP:  getEnvInt("RATE_LIMIT_PER_IP", 30),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AdminSecret != "" && len(c.AdminSecret) < 32 {
		return fmt.Errorf("ADMIN_SECRET_KEY must be at least 32 characters")
	}
	if !c.ConsoleEnabled && c.TCPAddr == "" && c.WSAddr == "" {
		return fmt.Errorf("at least one of CONSOLE_ENABLED, TCP_ADDR or WS_ADDR must be enabled")
	}
	if c.RateLimitPerIP < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_IP must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBDriver == DriverPostgres && c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET_KEY must be set in production")
	}
	if c.AdminSecret == "your_admin_secret_minimum_32_chars_change_this" {
		return fmt.Errorf("ADMIN_SECRET_KEY must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RemoteAuthRequired reports whether socket clients must authenticate
// before changing the catalog.
func (c *Config) RemoteAuthRequired() bool {
	return c.AdminSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
