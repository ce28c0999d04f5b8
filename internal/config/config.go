package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers selectable with STORAGE_DRIVER
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains runtime configuration values
type Config struct {
	Environment        string
	ServerPort         string
	APIPrefix          string
	StorageDriver      string
	DBFile             string
	SQLitePath         string
	ReadOnly           bool
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Load reads configuration from environment variables. Call godotenv.Load
// first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:        getEnv("APP_ENV", "development"),
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		APIPrefix:          getEnv("API_PREFIX", "/api/v1"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
		DBFile:             getEnv("DB_FILE", "db.json"),
		SQLitePath:         getEnv("SQLITE_PATH", "db.sqlite"),
		ReadOnly:           getBool("READ_ONLY", false),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	switch cfg.StorageDriver {
	case DriverFile, DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q (want file, memory, postgres or sqlite)", cfg.StorageDriver)
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return nil, fmt.Errorf("SERVER_PORT must be a number: %w", err)
	}

	if cfg.APIPrefix != "" && !strings.HasPrefix(cfg.APIPrefix, "/") {
		cfg.APIPrefix = "/" + cfg.APIPrefix
	}
	cfg.APIPrefix = strings.TrimSuffix(cfg.APIPrefix, "/")

	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
