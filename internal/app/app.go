// Package app builds the service graph shared by the HTTP server and panelctl.
// Backends are chosen from config: Postgres, Redis and Kafka when configured,
// in-memory stores otherwise.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"painel/internal/accountstore"
	authmetrics "painel/internal/auth/metrics"
	authservice "painel/internal/auth/service"
	credentialstore "painel/internal/auth/store/credential"
	sessionstore "painel/internal/auth/store/session"
	"painel/internal/auth/token"
	"painel/internal/companylookup"
	"painel/internal/companylookup/cache"
	lookupmetrics "painel/internal/companylookup/metrics"
	listingmetrics "painel/internal/listing/metrics"
	listingservice "painel/internal/listing/service"
	"painel/internal/platform/config"
	"painel/internal/platform/database"
	"painel/internal/platform/kafka"
	"painel/internal/platform/kafka/producer"
	redisclient "painel/internal/platform/redis"
	"painel/internal/platform/tracing"
	regmetrics "painel/internal/registration/metrics"
	regservice "painel/internal/registration/service"
	"painel/internal/seeder"
	"painel/internal/tenant/feed"
	tenantmetrics "painel/internal/tenant/metrics"
	tenantservice "painel/internal/tenant/service"
	namespacestore "painel/internal/tenant/store/namespace"
	tenantstore "painel/internal/tenant/store/tenant"
	"painel/migrations"
	"painel/pkg/platform/audit"
	"painel/pkg/platform/audit/publisher"
	kafkastore "painel/pkg/platform/audit/store/kafka"
	auditmemory "painel/pkg/platform/audit/store/memory"
	"painel/pkg/platform/tracer"
	"painel/pkg/secrets"
)

const (
	auditBufferSize   = 256
	poolStatsInterval = 15 * time.Second
)

// App holds every constructed service plus the infrastructure it owns.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	DB       *database.Pool
	Redis    *redisclient.Client
	Producer *producer.Producer

	Auth         *authservice.Service
	Tenants      *tenantservice.Service
	Accounts     *accountstore.Store
	Lookup       companylookup.Resolver
	Registration *regservice.Service
	Listing      *listingservice.Service
	Seeder       *seeder.Seeder

	ListingMetrics *listingmetrics.Metrics

	audit           *publisher.Publisher
	shutdownTracing tracing.ShutdownFunc
	stopPoolStats   context.CancelFunc
}

// Build connects the configured backends and constructs the services.
// reg receives every service collector; pass prometheus.DefaultRegisterer in
// binaries and a fresh registry in tests.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (_ *App, err error) {
	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			a.Close(context.Background())
		}
	}()

	a.shutdownTracing, err = tracing.Init(ctx, logger, cfg.Tracing, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	var tr tracer.Tracer = tracer.NewNoop()
	if cfg.Tracing.OTLPEndpoint != "" {
		tr = tracer.NewOTel()
	}

	if a.DB, err = database.New(ctx, cfg.Database); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if a.DB != nil && cfg.Database.MigrateOnStart {
		if err = migrations.Up(ctx, a.DB.DB()); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	if a.Redis, err = redisclient.New(ctx, cfg.Redis); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if a.Redis != nil {
		statsCtx, cancel := context.WithCancel(context.Background())
		a.stopPoolStats = cancel
		go a.Redis.RunPoolStats(statsCtx, poolStatsInterval)
	}

	auditStore, err := a.auditStore()
	if err != nil {
		return nil, err
	}
	a.audit = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(logger),
		publisher.WithMetrics(publisher.NewMetricsWith(reg)),
	)
	emitter := audit.NewLogger(logger, a.audit)

	signingKey := cfg.Session.SigningKey
	if signingKey == "" {
		if signingKey, err = secrets.Generate(); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		logger.Warn("SESSION_SIGNING_KEY not set, sessions will not survive a restart")
	}

	a.Auth = authservice.New(a.credentialStore(), a.sessionStore(), token.NewSigner(signingKey),
		authservice.WithLogger(logger),
		authservice.WithSessionTTL(cfg.Session.TTL),
		authservice.WithAuditPublisher(emitter),
		authservice.WithMetrics(authmetrics.NewWith(reg)),
	)
	a.Tenants = a.tenantService(logger, emitter, reg)
	a.Accounts = accountstore.New(a.Auth, a.Tenants, accountstore.WithTracer(tr))

	a.Lookup = companylookup.Build(
		companylookup.NewHTTPClient(companylookup.ClientConfig{
			BaseURL: cfg.Lookup.BaseURL,
			Timeout: cfg.Lookup.Timeout,
		}),
		companylookup.Options{
			Cache:            a.lookupCache(),
			RatePerSecond:    cfg.Lookup.RatePerSecond,
			BreakerThreshold: cfg.Lookup.BreakerThreshold,
			BreakerCooldown:  cfg.Lookup.BreakerCooldown,
			Timeout:          cfg.Lookup.Timeout,
			Tracer:           tr,
			Metrics:          lookupmetrics.NewWith(reg),
			Logger:           logger,
		},
	)

	a.Registration = regservice.New(a.Accounts,
		regservice.WithLogger(logger),
		regservice.WithAuditPublisher(emitter),
		regservice.WithMetrics(regmetrics.NewWith(reg)),
		regservice.WithTracer(tr),
		regservice.WithStrictTaxID(cfg.Registration.StrictCNPJ),
	)

	a.ListingMetrics = listingmetrics.NewWith(reg)
	a.Listing = listingservice.New(a.Accounts, a.Lookup,
		listingservice.WithLogger(logger),
		listingservice.WithTracer(tr),
		listingservice.WithMetrics(a.ListingMetrics),
		listingservice.WithConcurrency(cfg.Listing.LookupConcurrency),
	)

	a.Seeder = seeder.New(a.Auth, a.Accounts, logger)
	return a, nil
}

// InMemory reports whether tenant data lives only in this process.
func (a *App) InMemory() bool {
	return a.DB == nil
}

// Close releases everything Build opened. The audit publisher drains
// before the Kafka producer is flushed.
func (a *App) Close(ctx context.Context) {
	if a.audit != nil {
		a.audit.Close()
	}
	if a.Producer != nil {
		a.Producer.Close()
	}
	if a.stopPoolStats != nil {
		a.stopPoolStats()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close database", "error", err)
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Warn("shutdown tracing", "error", err)
		}
	}
}

func (a *App) auditStore() (audit.Store, error) {
	if a.Config.Kafka.Brokers == "" {
		return auditmemory.NewInMemoryStore(), nil
	}
	p, err := producer.New(kafka.DefaultProducerConfig(a.Config.Kafka.Brokers), a.Logger)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	a.Producer = p
	return kafkastore.New(p, a.Config.Kafka.AuditTopic), nil
}

func (a *App) credentialStore() authservice.CredentialStore {
	if a.DB != nil {
		return credentialstore.NewPostgres(a.DB.DB())
	}
	return credentialstore.New()
}

func (a *App) sessionStore() authservice.SessionStore {
	if a.Redis != nil {
		return sessionstore.NewRedis(a.Redis.Client)
	}
	return sessionstore.New()
}

func (a *App) tenantService(logger *slog.Logger, emitter *audit.Logger, reg prometheus.Registerer) *tenantservice.Service {
	var broker tenantservice.ChangeBroker
	if a.Redis != nil {
		broker = feed.NewRedisBroker(a.Redis.Client, logger)
	} else {
		broker = feed.NewMemoryBroker()
	}

	opts := []tenantservice.Option{
		tenantservice.WithLogger(logger),
		tenantservice.WithAuditPublisher(emitter),
		tenantservice.WithMetrics(tenantmetrics.NewWith(reg)),
	}
	if a.DB != nil {
		opts = append(opts, tenantservice.WithTx(database.NewPostgresTx(a.DB.DB())))
		return tenantservice.New(tenantstore.NewPostgres(a.DB.DB()), namespacestore.NewPostgres(a.DB.DB()), broker, opts...)
	}
	return tenantservice.New(tenantstore.New(), namespacestore.New(), broker, opts...)
}

func (a *App) lookupCache() companylookup.Cache {
	if a.Redis != nil {
		return cache.NewRedis(a.Redis.Client, a.Config.Lookup.CacheTTL)
	}
	return cache.NewMemory(a.Config.Lookup.CacheTTL)
}
