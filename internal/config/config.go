package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Store  StoreConfig
	Server ServerConfig
	// SeedOnStart populates an empty store with the sample dataset at boot.
	SeedOnStart bool
}

// StoreType selects the repository backend
type StoreType string

const (
	StoreTypeMemory     StoreType = "memory"
	StoreTypeSQLite     StoreType = "sqlite"
	StoreTypePostgreSQL StoreType = "postgres"
)

// StoreConfig holds repository backend configuration
type StoreConfig struct {
	Type StoreType

	// SQLite settings
	SQLitePath string

	// PostgreSQL settings
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the database connection string for the SQL backends
func (c StoreConfig) DSN() string {
	if c.Type == StoreTypeSQLite {
		if c.SQLitePath != "" {
			return fmt.Sprintf("file:%s?cache=shared", c.SQLitePath)
		}
		return "file::memory:?cache=shared"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsSQL returns true when the backend is a database rather than the in-memory store
func (c StoreConfig) IsSQL() bool {
	return c.Type == StoreTypeSQLite || c.Type == StoreTypePostgreSQL
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	storeType := StoreType(getEnv("STORE_TYPE", "memory"))
	switch storeType {
	case StoreTypeMemory, StoreTypeSQLite, StoreTypePostgreSQL:
	default:
		storeType = StoreTypeMemory
	}

	config := &Config{
		Store: StoreConfig{
			Type:       storeType,
			SQLitePath: getEnv("SQLITE_PATH", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "weather"),
			Password:   getEnv("DB_PASSWORD", "weather_password"),
			Name:       getEnv("DB_NAME", "weather"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		SeedOnStart: getEnvAsBool("SEED_ON_START", true),
	}

	return config, nil
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
