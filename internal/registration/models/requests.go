package models

import (
	"strings"

	"cloud.google.com/go/civil"

	dErrors "painel/pkg/domain-errors"
)

// SubmitRequest carries the modal fields. LicenseCount stays text so the
// form can echo what the operator typed.
type SubmitRequest struct {
	Email        string `json:"email"`
	TaxID        string `json:"tax_id"`
	LicenseCount string `json:"license_count"`
	ExpiresAt    string `json:"expires_at"`

	expiresAt *civil.Date
}

func (r *SubmitRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.ExpiresAt = strings.TrimSpace(r.ExpiresAt)
}

// Validate only checks the date syntax. Field rules run in the form so their
// errors come back in the form projection.
func (r *SubmitRequest) Validate() error {
	if r.ExpiresAt == "" {
		return nil
	}
	d, err := civil.ParseDate(r.ExpiresAt)
	if err != nil || !d.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "expires_at must be a date formatted YYYY-MM-DD")
	}
	r.expiresAt = &d
	return nil
}

// Edits converts the request into form edits.
func (r *SubmitRequest) Edits() Edits {
	return Edits{
		Email:        &r.Email,
		TaxID:        &r.TaxID,
		LicenseCount: &r.LicenseCount,
		ExpiresAt:    r.expiresAt,
	}
}

// FormatResponse is returned by the live CNPJ formatting endpoint.
type FormatResponse struct {
	Value    string `json:"value"`
	Digits   string `json:"digits"`
	Complete bool   `json:"complete"`
}
