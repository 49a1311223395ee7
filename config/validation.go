package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable in the
// current environment. The LLM API key is deliberately not required: the
// server must start without one so the sample endpoint and interaction
// history remain available for offline testing.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "SERVER_PORT must not be empty")
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.DBPath == "" {
			errors = append(errors, "DB_PATH is required when DB_DRIVER is sqlite")
		}
	case "postgres":
		for field, value := range map[string]string{
			"DB_HOST":     cfg.DBHost,
			"DB_PORT":     cfg.DBPort,
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
			"DB_NAME":     cfg.DBName,
		} {
			if value == "" {
				errors = append(errors, fmt.Sprintf("%s is required when DB_DRIVER is postgres", field))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("unsupported DB_DRIVER %q (expected sqlite or postgres)", cfg.DBDriver))
	}

	if cfg.LLMAPIURL == "" {
		errors = append(errors, "DEEPSEEK_API_URL must not be empty")
	}

	if IsProduction() && cfg.LLMAPIKey == "" {
		errors = append(errors, "DEEPSEEK_API_KEY (or DEEPSEEK_API_KEY_FILE) is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
