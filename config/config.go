package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration. Interactions are stored in sqlite by default;
	// set DB_DRIVER=postgres for a shared database.
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (optional, enables rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// LLM provider configuration
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string
}

// LoadConfig creates a new Config instance from environment variables.
// Secrets may be supplied through *_FILE variables pointing at mounted files.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8000"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "recipe_interactions.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBName:     getEnv("DB_NAME", "recipe_analyzer"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", ""),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisURL:  getEnv("REDIS_URL", ""),

		LLMAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		LLMModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
	}

	var err error
	if cfg.DBPassword, err = getSecret("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.RedisPassword, err = getSecret("REDIS_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.LLMAPIKey, err = getSecret("DEEPSEEK_API_KEY"); err != nil {
		return nil, err
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getSecret reads a value from KEY, falling back to the file named by KEY_FILE
func getSecret(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	file := os.Getenv(key + "_FILE")
	if file == "" {
		return "", nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s_FILE: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}
