package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
)

// PostgresStore persists credentials in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Credential) error {
	if c == nil {
		return fmt.Errorf("credential is required")
	}
	query := `
		INSERT INTO credentials (account_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.UUID(c.AccountID), c.Email, c.PasswordHash, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("e-mail already registered: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Credential, error) {
	query := `
		SELECT account_id, email, password_hash, created_at
		FROM credentials
		WHERE account_id = $1
	`
	c, err := scanCredential(s.db.QueryRowContext(ctx, query, uuid.UUID(accountID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find credential by id: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT account_id, email, password_hash, created_at
		FROM credentials
		WHERE lower(email) = lower($1)
	`
	c, err := scanCredential(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find credential by email: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, accountID id.AccountID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE account_id = $1`, uuid.UUID(accountID))
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credential rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*models.Credential, error) {
	var (
		accountID uuid.UUID
		c         models.Credential
	)
	if err := row.Scan(&accountID, &c.Email, &c.PasswordHash, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.AccountID = id.AccountID(accountID)
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
