package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"JWT_SECRET":   "secret",
		"DATABASE_URL": "postgres://localhost/portal",
	})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "recruitment", cfg.MongoDatabase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLife)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigin)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5, cfg.SubmitPerMinute)
	assert.Equal(t, 20, cfg.TrackPerMinute)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"JWT_SECRET":           "secret",
		"DB_DRIVER":            " MongoDB ",
		"MONGO_URI":            "mongodb://localhost:27017",
		"LOG_LEVEL":            "DEBUG",
		"AUTO_MIGRATE":         "false",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"REQUEST_TIMEOUT":      "15s",
	})
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigin)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestParseDriverAliases(t *testing.T) {
	for _, alias := range []string{"pq", "postgresql", "PGX"} {
		cfg, err := Parse(map[string]string{"JWT_SECRET": "s", "DB_DRIVER": alias, "DATABASE_URL": "postgres://x"})
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.DBDriver, alias)
	}
}

func TestParseValidation(t *testing.T) {
	_, err := Parse(map[string]string{"DB_DRIVER": "mongo", "SUBMIT_RATE_LIMIT_PER_MIN": "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "MONGO_URI is required")
	assert.Contains(t, err.Error(), "SUBMIT_RATE_LIMIT_PER_MIN must be positive")

	_, err = Parse(map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `DB_DRIVER "sqlite" is not supported`)

	_, err = Parse(map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "memory"})
	assert.NoError(t, err)
}

func TestParseRejectsMalformedValues(t *testing.T) {
	_, err := Parse(map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "memory", "REQUEST_TIMEOUT": "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
