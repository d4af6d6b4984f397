package models

import (
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	tenantmodels "painel/internal/tenant/models"
	"painel/pkg/cnpj"
	id "painel/pkg/domain"
)

const (
	EmptyCollection = "No tenants registered"
	EmptySearch     = "No results found"
)

// Row is one line of the tenant grid: the stored tenant plus the company name
// resolved for it. Rows are rebuilt on every refresh.
type Row struct {
	AccountID      id.AccountID `json:"account_id"`
	Email          string       `json:"email"`
	TaxID          string       `json:"tax_id"`
	FormattedTaxID string       `json:"tax_id_formatted"`
	CompanyName    string       `json:"company_name"`
	LicenseCount   int          `json:"license_count"`
	UsedLicenses   int          `json:"used_licenses"`
	CreatedOn      civil.Date   `json:"created_at"`
	ExpiresAt      civil.Date   `json:"expires_at"`

	CreatedAt time.Time `json:"-"`
}

// RowFromTenant builds the grid row for t. CreatedOn is the creation instant
// as a calendar date in loc.
func RowFromTenant(t *tenantmodels.Tenant, companyName string, loc *time.Location) Row {
	return Row{
		AccountID:      t.AccountID,
		Email:          t.Email,
		TaxID:          t.TaxID,
		FormattedTaxID: cnpj.Format(t.TaxID),
		CompanyName:    companyName,
		LicenseCount:   t.LicenseCount,
		UsedLicenses:   t.UsedLicenses,
		CreatedOn:      civil.DateOf(t.CreatedAt.In(loc)),
		ExpiresAt:      t.ExpiresAt,
		CreatedAt:      t.CreatedAt,
	}
}

// SortRows orders rows by creation time, then account id, so refreshes render
// in a stable order whatever order the lookups finished in.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].AccountID.String() < rows[j].AccountID.String()
	})
}

// Filter returns the rows whose company name, tax id (raw or formatted) or
// email contains term, ignoring case. The input slice is never modified; an
// empty term returns a copy of every row.
func Filter(rows []Row, term string) []Row {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if needle == "" || r.matches(needle) {
			out = append(out, r)
		}
	}
	return out
}

func (r Row) matches(needle string) bool {
	return strings.Contains(strings.ToLower(r.CompanyName), needle) ||
		strings.Contains(r.TaxID, needle) ||
		strings.Contains(r.FormattedTaxID, needle) ||
		strings.Contains(strings.ToLower(r.Email), needle)
}

// EmptyMessage is the text shown when filtered has no rows, or "" otherwise.
func EmptyMessage(filtered []Row, term string) string {
	if len(filtered) > 0 {
		return ""
	}
	if strings.TrimSpace(term) != "" {
		return EmptySearch
	}
	return EmptyCollection
}
