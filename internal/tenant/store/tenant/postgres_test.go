package tenant

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
	txcontext "painel/pkg/platform/tx"
	"painel/pkg/testutil"
)

var tenantColumns = []string{"account_id", "email", "tax_id", "license_count", "used_licenses", "created_at", "expires_at"}

func newMock(t *testing.T) (*PostgresStore, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), db, mock
}

func TestPostgresStore_CreateJoinsContextTx(t *testing.T) {
	store, db, mock := newMock(t)
	tenant := testutil.NewTenantBuilder().Build()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenants")).
		WithArgs(uuid.UUID(tenant.AccountID), tenant.Email, tenant.TaxID, 10, 0, tenant.CreatedAt, tenant.ExpiresAt.In(time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, store.Create(txcontext.WithTx(context.Background(), tx), tenant))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAll(t *testing.T) {
	store, _, mock := newMock(t)
	first := uuid.New()
	second := uuid.New()
	created := testutil.BaseTime

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at, account_id")).
		WillReturnRows(sqlmock.NewRows(tenantColumns).
			AddRow(first.String(), "a@acme.com", "11222333000181", 5, 1, created, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)).
			AddRow(second.String(), "b@acme.com", "99888777000166", 3, 0, created.Add(time.Minute), time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)))

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id.AccountID(first), all[0].AccountID)
	assert.Equal(t, civil.Date{Year: 2027, Month: time.January, Day: 31}, all[0].ExpiresAt)
	assert.Equal(t, 1, all[0].UsedLicenses)
	assert.Equal(t, "99888777000166", all[1].TaxID)
}

func TestPostgresStore_UpdateTerms(t *testing.T) {
	store, _, mock := newMock(t)
	accountID := id.NewAccountID()
	expires := civil.Date{Year: 2028, Month: time.March, Day: 3}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants")).
		WithArgs(uuid.UUID(accountID), 20, expires.In(time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenants")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.UpdateTerms(context.Background(), accountID, 20, expires))
	assert.ErrorIs(t, store.UpdateTerms(context.Background(), accountID, 20, expires), sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	store, _, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1")).WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), id.NewAccountID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
