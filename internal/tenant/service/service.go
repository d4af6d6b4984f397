package service

import (
	"context"
	"log/slog"

	"cloud.google.com/go/civil"

	"painel/internal/tenant/feed"
	"painel/internal/tenant/metrics"
	"painel/internal/tenant/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/audit"
)

// TenantStore persists tenant records.
// Error Contract: Create returns sentinel.ErrAlreadyUsed when the account
// already has a tenant; FindByID and UpdateTerms return sentinel.ErrNotFound.
type TenantStore interface {
	Create(ctx context.Context, t *models.Tenant) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Tenant, error)
	ListAll(ctx context.Context) ([]*models.Tenant, error)
	UpdateTerms(ctx context.Context, accountID id.AccountID, licenseCount int, expiresAt civil.Date) error
}

// NamespaceStore writes the per-company placeholder. Ensure is idempotent.
type NamespaceStore interface {
	Ensure(ctx context.Context, ns *models.Namespace) error
}

// ChangeBroker carries change signals to subscribed listings.
type ChangeBroker interface {
	Publish(ctx context.Context, change models.Change) error
	Subscribe(ctx context.Context) (feed.Subscription, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the tenant document store: tenant records, namespace
// placeholders and the change feed.
type Service struct {
	tenants    TenantStore
	namespaces NamespaceStore
	changes    ChangeBroker
	tx         StoreTx
	logger     *slog.Logger
	audit      AuditPublisher
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the transaction boundary. Without it writes are serialized by
// an in-memory lock.
func WithTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func New(tenants TenantStore, namespaces NamespaceStore, changes ChangeBroker, opts ...Option) *Service {
	svc := &Service{
		tenants:    tenants,
		namespaces: namespaces,
		changes:    changes,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.tx == nil {
		svc.tx = newInMemoryStoreTx()
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}
