package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "ivix", cfg.Storage.KeyPrefix)
	assert.Equal(t, "data/ivix.db", cfg.Database.Path)
	assert.Equal(t, 24*60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.Origins())
	assert.Len(t, cfg.Auth.JWTSecret, 64)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IVIX_APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "jwt secret")

	t.Setenv("IVIX_AUTH_JWTSECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("IVIX_STORAGE_BACKEND", "redis")
	t.Setenv("IVIX_REDIS_ADDR", "cache:6380")
	t.Setenv("IVIX_REDIS_DB", "2")
	t.Setenv("IVIX_AUTH_JWTSECRET", "s3cret")
	t.Setenv("IVIX_APP_ENV", "production")
	t.Setenv("IVIX_SERVER_CORSORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Storage.Backend = BackendMemory
	assert.ErrorContains(t, cfg.Validate(), "jwt secret")

	cfg.Auth.JWTSecret = "s3cret"
	cfg.Storage.Backend = BackendS3
	assert.ErrorContains(t, cfg.Validate(), "bucket")

	cfg.Storage.Bucket = "games"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Backend = "floppy"
	assert.ErrorContains(t, cfg.Validate(), "unknown storage backend")

	cfg.Storage.Backend = BackendMemory
	assert.NoError(t, cfg.Validate())
}
