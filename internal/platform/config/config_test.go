package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "https://publica.cnpj.ws/cnpj", cfg.Lookup.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Lookup.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Listing.LookupConcurrency)
	assert.False(t, cfg.Registration.StrictCNPJ)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PAINEL_ADDR", ":9090")
	t.Setenv("ALLOWED_ORIGINS", "https://painel.example.com,http://localhost:5173")
	t.Setenv("CNPJ_RATE_PER_SECOND", "0.5")
	t.Setenv("REGISTRATION_STRICT_CNPJ", "true")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"https://painel.example.com", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.InDelta(t, 0.5, cfg.Lookup.RatePerSecond, 1e-9)
	assert.True(t, cfg.Registration.StrictCNPJ)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestValidate(t *testing.T) {
	t.Run("production needs a signing key", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", EnvProduction)
		_, err := Load()
		assert.ErrorContains(t, err, "SESSION_SIGNING_KEY is required")
	})

	t.Run("short signing key", func(t *testing.T) {
		t.Setenv("SESSION_SIGNING_KEY", "short")
		_, err := Load()
		assert.ErrorContains(t, err, "at least 32 bytes")
	})

	t.Run("bootstrap fields go together", func(t *testing.T) {
		t.Setenv("BOOTSTRAP_OPERATOR_EMAIL", "ops@example.com")
		_, err := Load()
		assert.ErrorContains(t, err, "must be set together")
	})

	t.Run("lookup concurrency at least one", func(t *testing.T) {
		t.Setenv("LISTING_LOOKUP_CONCURRENCY", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "LISTING_LOOKUP_CONCURRENCY")
	})
}
