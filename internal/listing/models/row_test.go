package models

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantmodels "painel/internal/tenant/models"
	id "painel/pkg/domain"
)

func sampleRows() []Row {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Row{
		{AccountID: id.NewAccountID(), Email: "ana@acme.com", TaxID: "11222333000181",
			FormattedTaxID: "11.222.333/0001-81", CompanyName: "ACME Industria LTDA", CreatedAt: base},
		{AccountID: id.NewAccountID(), Email: "bob@globex.com", TaxID: "45997418000153",
			FormattedTaxID: "45.997.418/0001-53", CompanyName: "Error resolving", CreatedAt: base.Add(time.Hour)},
		{AccountID: id.NewAccountID(), Email: "carol@initech.com", TaxID: "60701190000104",
			FormattedTaxID: "60.701.190/0001-04", CompanyName: "Initech SA", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestRowFromTenant(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	tenant := &tenantmodels.Tenant{
		AccountID:    id.NewAccountID(),
		Email:        "ana@acme.com",
		TaxID:        "11222333000181",
		LicenseCount: 5,
		UsedLicenses: 2,
		CreatedAt:    time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC),
		ExpiresAt:    civil.Date{Year: 2027, Month: time.March, Day: 1},
	}

	row := RowFromTenant(tenant, "ACME", loc)
	assert.Equal(t, "11.222.333/0001-81", row.FormattedTaxID)
	assert.Equal(t, civil.Date{Year: 2026, Month: time.March, Day: 1}, row.CreatedOn)
	assert.Equal(t, 2, row.UsedLicenses)
	assert.Equal(t, "ACME", row.CompanyName)
}

func TestFilter(t *testing.T) {
	rows := sampleRows()
	before := append([]Row(nil), rows...)

	tests := []struct {
		name string
		term string
		want []int
	}{
		{"empty term keeps all", "", []int{0, 1, 2}},
		{"company name ignores case", "acme industria", []int{0}},
		{"raw tax id", "45997418", []int{1}},
		{"formatted tax id", "60.701.190", []int{2}},
		{"email", "GLOBEX", []int{1}},
		{"sentinel names are searchable", "error", []int{1}},
		{"no match", "umbrella", []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rows, tt.term)
			want := make([]Row, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, rows[i])
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.term, diff)
			}
		})
	}

	if diff := cmp.Diff(before, rows); diff != "" {
		t.Errorf("Filter mutated its input (-before +after):\n%s", diff)
	}
}

func TestSortRows(t *testing.T) {
	rows := sampleRows()
	shuffled := []Row{rows[2], rows[0], rows[1]}
	SortRows(shuffled)
	assert.Empty(t, cmp.Diff(rows, shuffled))

	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Row{AccountID: id.AccountID{0x01}, CreatedAt: same}
	b := Row{AccountID: id.AccountID{0x02}, CreatedAt: same}
	tie := []Row{b, a}
	SortRows(tie)
	assert.Equal(t, a.AccountID, tie[0].AccountID)
}

func TestNewListResponse(t *testing.T) {
	rows := sampleRows()

	resp := NewListResponse(rows, " initech ", 4)
	assert.Len(t, resp.Rows, 1)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "initech", resp.Query)
	assert.Equal(t, uint64(4), resp.Generation)
	assert.Empty(t, resp.EmptyMessage)

	assert.Equal(t, EmptySearch, NewListResponse(rows, "umbrella", 4).EmptyMessage)
	assert.Equal(t, EmptyCollection, NewListResponse(nil, "", 1).EmptyMessage)
}

func TestEditRequest_ZeroLicenses(t *testing.T) {
	req := &EditRequest{LicenseCount: 0, ExpiresAt: "2027-05-10"}
	require.NoError(t, req.Validate())
	assert.Equal(t, civil.Date{Year: 2027, Month: time.May, Day: 10}, req.Expires())
}

func TestEditRequest(t *testing.T) {
	req := &EditRequest{LicenseCount: 3, ExpiresAt: " 2027-05-10 "}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, civil.Date{Year: 2027, Month: time.May, Day: 10}, req.Expires())

	assert.Error(t, (&EditRequest{LicenseCount: -1, ExpiresAt: "2027-05-10"}).Validate())
	assert.Error(t, (&EditRequest{LicenseCount: tenantmodels.MaxLicenseCount + 1, ExpiresAt: "2027-05-10"}).Validate())
	assert.Error(t, (&EditRequest{LicenseCount: 1, ExpiresAt: "10/05/2027"}).Validate())
	assert.Error(t, (&EditRequest{LicenseCount: 1, ExpiresAt: "2027-02-30"}).Validate())
}
