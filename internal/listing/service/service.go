package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"painel/internal/listing/metrics"
	"painel/internal/tenant/feed"
	tenantmodels "painel/internal/tenant/models"
	tenantservice "painel/internal/tenant/service"
	"painel/pkg/platform/tracer"
)

// DefaultConcurrency bounds the company-name lookups of one refresh.
const DefaultConcurrency = 8

// AccountStore is the slice of the backend the grid reads and writes.
type AccountStore interface {
	ListTenants(ctx context.Context) ([]*tenantmodels.Tenant, error)
	UpdateTenant(ctx context.Context, cmd tenantservice.UpdateTermsCommand) (*tenantmodels.Tenant, error)
	SubscribeTenants(ctx context.Context) (feed.Subscription, error)
}

// CompanyResolver resolves a normalized tax id to the registered company name.
type CompanyResolver interface {
	ResolveCompanyName(ctx context.Context, taxID string) (string, error)
}

// Service builds the tenant grid: it reads the collection, enriches each
// tenant with its company name and writes inline edits back.
type Service struct {
	store       AccountStore
	resolver    CompanyResolver
	logger      *slog.Logger
	tracer      tracer.Tracer
	metrics     *metrics.Metrics
	concurrency int
	location    *time.Location

	generation atomic.Uint64
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithConcurrency bounds parallel lookups per refresh. Values below one run
// lookups sequentially.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
	}
}

// WithLocation sets the zone creation dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func New(store AccountStore, resolver CompanyResolver, opts ...Option) *Service {
	s := &Service{
		store:       store,
		resolver:    resolver,
		concurrency: DefaultConcurrency,
		location:    time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNoop()
	}
	return s
}
