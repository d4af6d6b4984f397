// Package seeder bootstraps the operator credential and, in development,
// a handful of demo tenants.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	authmodels "painel/internal/auth/models"
	regmodels "painel/internal/registration/models"
	tenantmodels "painel/internal/tenant/models"
	tenantservice "painel/internal/tenant/service"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/privacy"
)

// Operators creates the operator credential if it is missing.
type Operators interface {
	EnsureOperator(ctx context.Context, email, password string) (*authmodels.Credential, bool, error)
}

// Registrar writes tenant accounts the same way the registration flow does.
type Registrar interface {
	CreateCredential(ctx context.Context, email, password string) (*authmodels.Credential, error)
	WriteTenantDocuments(ctx context.Context, cmd tenantservice.WriteDocumentsCommand) (*tenantmodels.Tenant, error)
}

type Seeder struct {
	operators Operators
	registrar Registrar
	logger    *slog.Logger
}

func New(operators Operators, registrar Registrar, logger *slog.Logger) *Seeder {
	return &Seeder{
		operators: operators,
		registrar: registrar,
		logger:    logger,
	}
}

// EnsureOperator makes sure an operator can sign in with email and password.
// An existing credential is left untouched.
func (s *Seeder) EnsureOperator(ctx context.Context, email, password string) error {
	cred, created, err := s.operators.EnsureOperator(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ensure operator: %w", err)
	}
	s.logger.InfoContext(ctx, "operator bootstrap",
		"account_id", cred.AccountID.String(),
		"email", privacy.MaskEmail(cred.Email),
		"created", created,
	)
	return nil
}

type demoTenant struct {
	email    string
	taxID    string
	licenses int
	months   int
}

var demoTenants = []demoTenant{
	{"contato@acme.example.com", "11222333000181", 10, 12},
	{"ti@magalu.example.com", "47960950000121", 50, 24},
	{"admin@itau.example.com", "60701190000104", 120, 6},
	{"suporte@petro.example.com", "33000167000101", 5, 1},
}

// SeedDemoTenants registers the demo tenants with the default password.
// Tenants whose e-mail is already registered are skipped, so seeding twice
// is harmless. It returns how many tenants were created.
func (s *Seeder) SeedDemoTenants(ctx context.Context, today civil.Date) (int, error) {
	created := 0
	for _, d := range demoTenants {
		cred, err := s.registrar.CreateCredential(ctx, d.email, regmodels.DefaultPassword)
		if dErrors.HasCode(err, dErrors.CodeEmailInUse) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed credential %s: %w", d.email, err)
		}
		if _, err := s.registrar.WriteTenantDocuments(ctx, tenantservice.WriteDocumentsCommand{
			AccountID:    cred.AccountID,
			Email:        cred.Email,
			TaxID:        d.taxID,
			LicenseCount: d.licenses,
			ExpiresAt:    civil.DateOf(today.In(time.UTC).AddDate(0, d.months, 0)),
		}); err != nil {
			return created, fmt.Errorf("seed tenant %s: %w", d.email, err)
		}
		created++
	}

	s.logger.InfoContext(ctx, "demo tenants seeded", "created", created)
	return created, nil
}
