package config

import (
	"errors"  // Validation errors
	"fmt"     // Error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // Session lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Supported database drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrMissingSessionSecret is returned when SESSION_SECRET is not configured
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBDriver      string        // Database driver: sqlite or mysql
	DBPath        string        // SQLite database file
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	SessionSecret string        // Session cookie signing key
	SessionTTL    time.Duration // Session lifetime
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	IsProd        bool          // Is production environment
	AIKey         string        // Third-party key for the reading page, empty when not configured
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),                  // Application port
		DBDriver:      getEnv("DB_DRIVER", DriverSQLite),           // Database driver
		DBPath:        getEnv("DB_PATH", "users.db"),               // SQLite file
		DBUser:        os.Getenv("DB_USER"),                        // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                    // Database password
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),              // Database host
		DBPort:        getEnv("DB_PORT", "3306"),                   // Database port
		DBName:        os.Getenv("DB_NAME"),                        // Database name
		SessionSecret: os.Getenv("SESSION_SECRET"),                 // Never defaulted
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour), // Session lifetime
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),      // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                     // Redis password
		RedisDB:       getEnvInt("REDIS_DB", 0),                    // Redis database number
		IsProd:        os.Getenv("IS_PROD") == "true",              // Is production environment
		AIKey:         os.Getenv("AI_API_KEY"),                     // Reading page key
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case DriverMySQL:
		if c.DBName == "" {
			return errors.New("DB_NAME is required for mysql")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == DriverMySQL {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
	return c.DBPath
}

// ReadingEnabled reports whether the reading page has a key to work with
func (c *Config) ReadingEnabled() bool {
	return c.AIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}
