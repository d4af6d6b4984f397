package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painel/internal/platform/config"
	"painel/internal/platform/logger"
	"painel/pkg/platform/middleware/session"
)

func memoryConfig(registryURL string) *config.Config {
	return &config.Config{
		Environment: config.EnvDevelopment,
		Session:     config.SessionConfig{TTL: time.Hour},
		Lookup: config.LookupConfig{
			BaseURL:          registryURL,
			Timeout:          time.Second,
			CacheTTL:         time.Minute,
			BreakerThreshold: 5,
			BreakerCooldown:  time.Second,
		},
		Listing: config.ListingConfig{LookupConcurrency: 2},
	}
}

func TestBuild_InMemoryServesSeededTenants(t *testing.T) {
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		digits := strings.TrimPrefix(r.URL.Path, "/cnpj/")
		_, _ = w.Write([]byte(`{"razao_social":"COMPANY ` + digits + `"}`))
	}))
	t.Cleanup(registry.Close)

	ctx := context.Background()
	a, err := Build(ctx, memoryConfig(registry.URL+"/cnpj"), logger.NewWithWriter(io.Discard, "error"), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })

	assert.True(t, a.InMemory())
	assert.Nil(t, a.Redis)
	assert.Nil(t, a.Producer)

	created, err := a.Seeder.SeedDemoTenants(ctx, civil.Date{Year: 2026, Month: time.October, Day: 15})
	require.NoError(t, err)
	require.Equal(t, 4, created)

	snap, err := a.Listing.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 4)
	for _, row := range snap.Rows {
		assert.Equal(t, "COMPANY "+row.TaxID, row.CompanyName)
	}
}

func TestBuild_OperatorCanSignIn(t *testing.T) {
	ctx := context.Background()
	a, err := Build(ctx, memoryConfig("http://127.0.0.1:0"), logger.NewWithWriter(io.Discard, "error"), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })

	require.NoError(t, a.Seeder.EnsureOperator(ctx, "ops@painel.example.com", "correct horse battery"))

	var _ session.Resolver = a.Auth
	_, err = a.Auth.ResolveSession(ctx, "not-a-token")
	assert.Error(t, err)
}
