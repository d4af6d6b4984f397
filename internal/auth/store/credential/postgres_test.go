package credential

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
)

func newMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresStore_Create(t *testing.T) {
	store, mock := newMock(t)
	c := &models.Credential{AccountID: id.NewAccountID(), Email: "ops@acme.com", PasswordHash: "hash", CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credentials")).
		WithArgs(uuid.UUID(c.AccountID), c.Email, c.PasswordHash, c.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_UniqueViolation(t *testing.T) {
	store, mock := newMock(t)
	c := &models.Credential{AccountID: id.NewAccountID(), Email: "ops@acme.com", PasswordHash: "hash", CreatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO credentials")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.Create(context.Background(), c)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestPostgresStore_FindByEmail(t *testing.T) {
	store, mock := newMock(t)
	accountID := uuid.New()
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("OPS@acme.com").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "email", "password_hash", "created_at"}).
			AddRow(accountID.String(), "ops@acme.com", "hash", created))

	c, err := store.FindByEmail(context.Background(), "OPS@acme.com")
	require.NoError(t, err)
	assert.Equal(t, id.AccountID(accountID), c.AccountID)
	assert.Equal(t, created, c.CreatedAt)
}

func TestPostgresStore_FindByID_NotFound(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), id.NewAccountID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMock(t)
	accountID := id.NewAccountID()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM credentials")).
		WithArgs(uuid.UUID(accountID)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM credentials")).
		WithArgs(uuid.UUID(accountID)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), accountID))
	assert.ErrorIs(t, store.Delete(context.Background(), accountID), sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
