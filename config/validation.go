package config

import (
	"fmt"
	"strconv"
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

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks the configuration for the current environment and
// reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{"PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" && cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "required when DATABASE_URL is not set"})
		}
		// Production must not run with a passwordless DSN assembled from parts
		if cfg.Environment.IsProduction() && cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "required in production"})
		}
	case DriverSQLite:
		if cfg.Environment.IsProduction() {
			errs = append(errs, ValidationError{"DB_DRIVER", "sqlite is not supported in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "must not be empty"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.DBMaxOpenConns <= 0 {
		errs = append(errs, ValidationError{"DB_MAX_OPEN_CONNS", "must be positive"})
	}
	if cfg.DBMaxIdleConns < 0 || cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		errs = append(errs, ValidationError{"DB_MAX_IDLE_CONNS", "must be between 0 and DB_MAX_OPEN_CONNS"})
	}
	if cfg.RedisURL != "" && cfg.RateLimitPerMinute <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must be positive when REDIS_URL is set"})
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, ValidationError{"LOG_LEVEL", fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
