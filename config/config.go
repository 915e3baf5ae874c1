package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the persistence layer
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Database configuration
	DBDriver          string
	DatabaseURL       string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	SQLitePath        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBLogSQL          bool

	// Redis configuration, empty URL disables rate limiting
	RedisURL           string
	RateLimitPerMinute int

	CORSAllowedOrigins []string
	LogLevel           string
}

// LoadConfig builds a Config from the environment. A .env file in the working
// directory (or the file named by ENV_FILE) is loaded first; variables already
// present in the process environment win over the file.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{Environment: GetEnvironment()}

	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("PORT", getEnv("SERVER_PORT", "8080"))

	var errs []string
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", 60 * time.Second, &cfg.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", 60 * time.Second, &cfg.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", 5 * time.Second, &cfg.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", 10 * time.Second, &cfg.ShutdownTimeout},
		{"DB_CONN_MAX_LIFETIME", 5 * time.Minute, &cfg.DBConnMaxLifetime},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		*d.dst = v
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", driverFromURL(cfg.DatabaseURL)))
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnv("DB_NAME", "feedback")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", sqlitePathFromURL(cfg.DatabaseURL, "feedback.db"))

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"DB_MAX_OPEN_CONNS", 25, &cfg.DBMaxOpenConns},
		{"DB_MAX_IDLE_CONNS", 25, &cfg.DBMaxIdleConns},
		{"RATE_LIMIT_PER_MINUTE", 60, &cfg.RateLimitPerMinute},
	}
	for _, i := range ints {
		v, err := getInt(i.key, i.def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		*i.dst = v
	}

	logSQL, err := getBool("DB_LOG_SQL", false)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.DBLogSQL = logSQL

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration:\n%s", strings.Join(errs, "\n"))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for PostgreSQL. DATABASE_URL wins
// over the discrete DB_* settings.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func loadDotEnv() error {
	path := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func driverFromURL(raw string) string {
	if raw == "" {
		return DriverPostgres
	}
	u, err := url.Parse(raw)
	if err != nil {
		return DriverPostgres
	}
	switch u.Scheme {
	case "sqlite", "file":
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// sqlitePathFromURL extracts the database file from a sqlite:// or file: URL.
// file: URLs are passed through whole since the sqlite driver accepts them.
func sqlitePathFromURL(raw, def string) string {
	if driverFromURL(raw) != DriverSQLite {
		return def
	}
	u, err := url.Parse(raw)
	if err != nil {
		return def
	}
	if u.Scheme == "file" {
		return raw
	}

	path := u.Opaque
	if path == "" {
		path = u.Host + u.Path
	}
	if path == "" {
		return def
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func getBool(key string, def bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return v, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def, fmt.Errorf("%s must be a duration, got %q", key, raw)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
