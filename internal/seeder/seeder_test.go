package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"painel/internal/accountstore"
	authmodels "painel/internal/auth/models"
	authservice "painel/internal/auth/service"
	credentialstore "painel/internal/auth/store/credential"
	sessionstore "painel/internal/auth/store/session"
	"painel/internal/auth/token"
	"painel/internal/tenant/feed"
	tenantservice "painel/internal/tenant/service"
	namespacestore "painel/internal/tenant/store/namespace"
	tenantstore "painel/internal/tenant/store/tenant"
	"painel/pkg/requestcontext"
)

func newStores() (*authservice.Service, *tenantservice.Service, *accountstore.Store) {
	auth := authservice.New(
		credentialstore.New(),
		sessionstore.New(),
		token.NewSigner("test-signing-key-with-32-bytes!!"),
		authservice.WithHashCost(bcrypt.MinCost),
	)
	tenants := tenantservice.New(tenantstore.New(), namespacestore.New(), feed.NewMemoryBroker())
	return auth, tenants, accountstore.New(auth, tenants)
}

func TestEnsureOperator(t *testing.T) {
	auth, _, store := newStores()
	s := New(auth, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := requestcontext.WithTime(context.Background(), time.Now())

	require.NoError(t, s.EnsureOperator(ctx, "ops@painel.example.com", "first-password"))
	require.NoError(t, s.EnsureOperator(ctx, "ops@painel.example.com", "second-password"))

	_, err := auth.SignIn(ctx, &authmodels.SignInRequest{Email: "ops@painel.example.com", Password: "first-password"})
	assert.NoError(t, err, "an existing operator keeps its password")
}

func TestSeedDemoTenants(t *testing.T) {
	auth, tenants, store := newStores()
	s := New(auth, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := requestcontext.WithTime(context.Background(), time.Now())
	today := civil.Date{Year: 2026, Month: time.January, Day: 31}

	created, err := s.SeedDemoTenants(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, len(demoTenants), created)

	again, err := s.SeedDemoTenants(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, again)

	all, err := tenants.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(demoTenants))
	for _, tenant := range all {
		assert.Len(t, tenant.TaxID, 14)
		assert.True(t, tenant.ExpiresAt.After(today))
	}
}
