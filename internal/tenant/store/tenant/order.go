package tenant

import (
	"bytes"
	"slices"

	"painel/internal/tenant/models"
)

// SortForListing orders tenants by creation time, then account id, which is
// the order the Postgres store returns.
func SortForListing(tenants []*models.Tenant) {
	slices.SortStableFunc(tenants, func(a, b *models.Tenant) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.AccountID[:], b.AccountID[:])
	})
}
