package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the in-memory database configuration
type DatabaseConfig struct {
	Name string
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// GetDSN returns the SQLite connection string. The database lives entirely
// in process memory and is lost on restart; the shared cache keeps the same
// database visible for the lifetime of the connection pool.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("PORT", 4000),
		},
		Database: DatabaseConfig{
			Name: getEnv("DB_NAME", "civitoken"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", true),
		},
	}
}

// Helper functions to read environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
