package models

import (
	"math"
	"time"

	"cloud.google.com/go/civil"

	"painel/pkg/cnpj"
	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
)

// MaxLicenseCount is the largest license count the tenant collection stores.
const MaxLicenseCount = math.MaxInt32

// Tenant is a registered customer account, keyed by the account id the
// credential system assigned to it.
type Tenant struct {
	AccountID    id.AccountID
	Email        string
	TaxID        string // normalized, 14 digits
	LicenseCount int
	UsedLicenses int
	CreatedAt    time.Time
	ExpiresAt    civil.Date
}

// NewTenant builds a tenant record for a freshly created credential.
// The tax id is stored normalized and used licenses start at zero.
func NewTenant(accountID id.AccountID, email, taxID string, licenseCount int, expiresAt civil.Date, now time.Time) (*Tenant, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "account id required")
	}
	normalized := cnpj.Normalize(taxID)
	if !cnpj.IsValid(normalized) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tax id must have 14 digits")
	}
	if licenseCount <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "license count must be positive")
	}
	if err := checkTerms(licenseCount, expiresAt); err != nil {
		return nil, err
	}
	return &Tenant{
		AccountID:    accountID,
		Email:        email,
		TaxID:        normalized,
		LicenseCount: licenseCount,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}, nil
}

// ApplyTerms replaces the editable fields. Nothing else on the record changes.
// Unlike registration, an edit may take the license count down to zero.
func (t *Tenant) ApplyTerms(licenseCount int, expiresAt civil.Date) error {
	if err := checkTerms(licenseCount, expiresAt); err != nil {
		return err
	}
	t.LicenseCount = licenseCount
	t.ExpiresAt = expiresAt
	return nil
}

// IsExpired reports whether the license period ended before today.
func (t *Tenant) IsExpired(today civil.Date) bool {
	return t.ExpiresAt.Before(today)
}

func checkTerms(licenseCount int, expiresAt civil.Date) error {
	if licenseCount < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "license count must not be negative")
	}
	if licenseCount > MaxLicenseCount {
		return dErrors.New(dErrors.CodeInvariantViolation, "license count is too large")
	}
	if !expiresAt.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "expiration date is invalid")
	}
	return nil
}

// Namespace is the per-company placeholder created next to every tenant,
// keyed by normalized tax id. Several tenants may share one.
type Namespace struct {
	TaxID     string
	CreatedAt time.Time
}
