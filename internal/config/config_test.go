package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "customerconnect", cfg.MongoDB.Database)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "Message from CustomerConnect", cfg.Email.DefaultSubject)
	assert.Equal(t, 15*time.Minute, cfg.Delivery.StallTimeout)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "Environment: production\nMongoDB:\n  Database: crm_test\nDelivery:\n  StallTimeout: 2m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("PORT", "8081")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "crm_test", cfg.MongoDB.Database)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.MongoDB.URI)
	assert.Equal(t, 2*time.Minute, cfg.Delivery.StallTimeout)
	assert.Equal(t, "8081", cfg.Server.Port)
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("ORIGINS", "http://a.test, http://b.test,,")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetEnvAsSlice("ORIGINS", ",", nil))
	assert.Equal(t, []string{"x"}, GetEnvAsSlice("MISSING_ORIGINS", ",", []string{"x"}))
}
