package namespace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"painel/internal/tenant/models"
	"painel/pkg/platform/sentinel"
	txcontext "painel/pkg/platform/tx"
)

// PostgresStore persists namespace placeholders in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Ensure(ctx context.Context, ns *models.Namespace) error {
	if ns == nil {
		return fmt.Errorf("namespace is required")
	}
	query := `
		INSERT INTO namespaces (tax_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (tax_id) DO NOTHING
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, ns.TaxID, ns.CreatedAt); err != nil {
		return fmt.Errorf("ensure namespace: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, taxID string) (*models.Namespace, error) {
	var ns models.Namespace
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT tax_id, created_at FROM namespaces WHERE tax_id = $1`, taxID,
	).Scan(&ns.TaxID, &ns.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("namespace not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find namespace: %w", err)
	}
	return &ns, nil
}
