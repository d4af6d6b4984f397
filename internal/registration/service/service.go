package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	authmodels "painel/internal/auth/models"
	"painel/internal/registration/metrics"
	"painel/internal/registration/models"
	tenantmodels "painel/internal/tenant/models"
	tenantservice "painel/internal/tenant/service"
	id "painel/pkg/domain"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/tracer"
)

// AccountStore is the part of the backend registration writes through.
type AccountStore interface {
	CreateCredential(ctx context.Context, email, password string) (*authmodels.Credential, error)
	DeleteCredential(ctx context.Context, accountID id.AccountID) error
	WriteTenantDocuments(ctx context.Context, cmd tenantservice.WriteDocumentsCommand) (*tenantmodels.Tenant, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const defaultFormTTL = 12 * time.Hour

// Service keeps one registration form per operator session and drives it
// through submission.
type Service struct {
	store    AccountStore
	validate models.ValidateOptions
	location *time.Location
	formTTL  time.Duration
	logger   *slog.Logger
	audit    AuditPublisher
	metrics  *metrics.Metrics
	tracer   tracer.Tracer

	mu    sync.Mutex
	forms map[id.SessionID]*openForm
}

type openForm struct {
	state    models.FormState
	openedAt time.Time
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

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithStrictTaxID enables the CNPJ check-digit test on submission.
func WithStrictTaxID(strict bool) Option {
	return func(s *Service) {
		s.validate.StrictTaxID = strict
	}
}

// WithLocation sets the time zone that decides "today" for the default
// expiration date. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFormTTL sets how long an untouched form is kept before it is dropped.
func WithFormTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.formTTL = ttl
		}
	}
}

func New(store AccountStore, opts ...Option) *Service {
	svc := &Service{
		store:    store,
		location: time.UTC,
		formTTL:  defaultFormTTL,
		forms:    make(map[id.SessionID]*openForm),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc
}
