package models

import (
	"strings"

	"cloud.google.com/go/civil"

	tenantmodels "painel/internal/tenant/models"
	dErrors "painel/pkg/domain-errors"
)

// EditRequest is the body of an inline grid edit. Both fields are always
// written back together.
type EditRequest struct {
	LicenseCount int    `json:"license_count"`
	ExpiresAt    string `json:"expires_at"`

	expires civil.Date
}

func (r *EditRequest) Normalize() {
	r.ExpiresAt = strings.TrimSpace(r.ExpiresAt)
}

func (r *EditRequest) Validate() error {
	if r.LicenseCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "license_count must not be negative")
	}
	if r.LicenseCount > tenantmodels.MaxLicenseCount {
		return dErrors.New(dErrors.CodeValidation, "license_count is too large")
	}
	d, err := civil.ParseDate(r.ExpiresAt)
	if err != nil || !d.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "expires_at must be a date formatted YYYY-MM-DD")
	}
	r.expires = d
	return nil
}

// Expires is the parsed expiration date. Only meaningful after Validate.
func (r *EditRequest) Expires() civil.Date {
	return r.expires
}

// ListResponse is the filtered grid.
type ListResponse struct {
	Rows         []Row  `json:"rows"`
	Total        int    `json:"total"`
	Query        string `json:"query,omitempty"`
	Generation   uint64 `json:"generation"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

// NewListResponse filters rows by term and fills the empty-state text.
func NewListResponse(rows []Row, term string, generation uint64) ListResponse {
	filtered := Filter(rows, term)
	return ListResponse{
		Rows:         filtered,
		Total:        len(rows),
		Query:        strings.TrimSpace(term),
		Generation:   generation,
		EmptyMessage: EmptyMessage(filtered, term),
	}
}
