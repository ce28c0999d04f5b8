package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "API_PREFIX", "STORAGE_DRIVER", "DB_FILE", "SQLITE_PATH", "READ_ONLY", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, DriverFile, cfg.StorageDriver)
	assert.Equal(t, "db.json", cfg.DBFile)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("API_PREFIX", "api/v2/")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:4200, https://app.example.com,")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "/api/v2", cfg.APIPrefix)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, []string{"http://localhost:4200", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "http")
	_, err = Load()
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestLoad_BadOptionalValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("READ_ONLY", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "mock")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "bookings")

	cfg, err := LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "host=localhost port=5432 user=mock password=secret dbname=bookings sslmode=disable", cfg.DSN)

	t.Setenv("DATABASE_URL", "postgres://mock@db/bookings")
	cfg, err = LoadDBConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://mock@db/bookings", cfg.DSN)
}

func TestLoadDBConfig_Missing(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"} {
		t.Setenv(key, "")
	}
	_, err := LoadDBConfig()
	assert.Error(t, err)
}
