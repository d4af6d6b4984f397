package testutil

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	tenantmodels "painel/internal/tenant/models"
	id "painel/pkg/domain"
)

// TestIDs are fixed ids for deterministic test data.
var TestIDs = struct {
	AccountID1 id.AccountID
	AccountID2 id.AccountID
	AccountID3 id.AccountID
}{
	AccountID1: id.AccountID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	AccountID2: id.AccountID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	AccountID3: id.AccountID(uuid.MustParse("33333333-3333-3333-3333-333333333333")),
}

// BaseTime anchors fixture timestamps.
var BaseTime = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

// TenantBuilder provides a fluent interface for building test tenants.
type TenantBuilder struct {
	tenant *tenantmodels.Tenant
}

func NewTenantBuilder() *TenantBuilder {
	accountID := id.NewAccountID()
	return &TenantBuilder{
		tenant: &tenantmodels.Tenant{
			AccountID:    accountID,
			Email:        fmt.Sprintf("tenant-%s@example.com", accountID.String()[:8]),
			TaxID:        "11222333000181",
			LicenseCount: 10,
			CreatedAt:    BaseTime,
			ExpiresAt:    civil.DateOf(BaseTime.AddDate(1, 0, 0)),
		},
	}
}

func (b *TenantBuilder) WithAccountID(accountID id.AccountID) *TenantBuilder {
	b.tenant.AccountID = accountID
	return b
}

func (b *TenantBuilder) WithEmail(email string) *TenantBuilder {
	b.tenant.Email = email
	return b
}

func (b *TenantBuilder) WithTaxID(taxID string) *TenantBuilder {
	b.tenant.TaxID = taxID
	return b
}

func (b *TenantBuilder) WithLicenses(count int) *TenantBuilder {
	b.tenant.LicenseCount = count
	return b
}

func (b *TenantBuilder) CreatedAt(t time.Time) *TenantBuilder {
	b.tenant.CreatedAt = t
	return b
}

func (b *TenantBuilder) ExpiresAt(d civil.Date) *TenantBuilder {
	b.tenant.ExpiresAt = d
	return b
}

func (b *TenantBuilder) Build() *tenantmodels.Tenant {
	out := *b.tenant
	return &out
}
