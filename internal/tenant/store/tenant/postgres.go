package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"painel/internal/tenant/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
	txcontext "painel/pkg/platform/tx"
)

// PostgresStore persists tenants in PostgreSQL. Writes join the caller's
// transaction when one is carried by the context.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	query := `
		INSERT INTO tenants (account_id, email, tax_id, license_count, used_licenses, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(t.AccountID),
		t.Email,
		t.TaxID,
		t.LicenseCount,
		t.UsedLicenses,
		t.CreatedAt,
		dateValue(t.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tenant already exists for account: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Tenant, error) {
	query := `
		SELECT account_id, email, tax_id, license_count, used_licenses, created_at, expires_at
		FROM tenants
		WHERE account_id = $1
	`
	t, err := scanTenant(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(accountID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tenant not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT account_id, email, tax_id, license_count, used_licenses, created_at, expires_at
		FROM tenants
		ORDER BY created_at, account_id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateTerms(ctx context.Context, accountID id.AccountID, licenseCount int, expiresAt civil.Date) error {
	query := `
		UPDATE tenants
		SET license_count = $2, expires_at = $3
		WHERE account_id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(accountID), licenseCount, dateValue(expiresAt))
	if err != nil {
		return fmt.Errorf("update tenant terms: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tenant terms rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("tenant not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var (
		accountID uuid.UUID
		expiresAt time.Time
		t         models.Tenant
	)
	if err := row.Scan(&accountID, &t.Email, &t.TaxID, &t.LicenseCount, &t.UsedLicenses, &t.CreatedAt, &expiresAt); err != nil {
		return nil, err
	}
	t.AccountID = id.AccountID(accountID)
	t.ExpiresAt = civil.DateOf(expiresAt)
	return &t, nil
}

// dateValue passes a civil date to the driver as midnight UTC for a DATE column.
func dateValue(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
