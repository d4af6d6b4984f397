package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"painel/internal/app"
	authhandler "painel/internal/auth/handler"
	listinghandler "painel/internal/listing/handler"
	"painel/internal/platform/config"
	"painel/internal/platform/health"
	"painel/internal/platform/logger"
	reghandler "painel/internal/registration/handler"
	httptransport "painel/internal/transport/http"
	"painel/pkg/platform/middleware/metadata"
	"painel/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing painel",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	a, err := app.Build(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Close(closeCtx)
	}()

	if err := bootstrap(ctx, a); err != nil {
		return err
	}

	router, err := newRouter(a)
	if err != nil {
		return err
	}

	// No write timeout: the listing stream holds its connection open.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// bootstrap creates the configured operator and, for a throwaway in-memory
// development instance, a handful of demo tenants.
func bootstrap(ctx context.Context, a *app.App) error {
	cfg := a.Config
	if cfg.Bootstrap.OperatorEmail != "" {
		if err := a.Seeder.EnsureOperator(ctx, cfg.Bootstrap.OperatorEmail, cfg.Bootstrap.OperatorPassword); err != nil {
			return err
		}
	}
	if cfg.Environment == config.EnvDevelopment && a.InMemory() {
		if _, err := a.Seeder.SeedDemoTenants(ctx, civil.DateOf(time.Now())); err != nil {
			return err
		}
	}
	return nil
}

func newRouter(a *app.App) (http.Handler, error) {
	cfg := a.Config

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}

	probes := health.New(cfg.Environment)
	if a.DB != nil {
		probes.RegisterCheck("database", a.DB.Health)
	}
	if a.Redis != nil {
		probes.RegisterCheck("redis", a.Redis.Health)
	}
	if a.Producer != nil {
		probes.RegisterCheck("kafka", a.Producer.Ping)
	}

	return httptransport.NewRouter(httptransport.Dependencies{
		Logger:   a.Logger,
		Sessions: a.Auth,
		Metadata: metadata.NewMiddleware(proxies),
		Latency:  request.NewMetrics(),
		Metrics:  promhttp.Handler(),
		Public: []httptransport.Routes{
			probes,
			authhandler.New(a.Auth, a.Logger, cfg.Session.Secure),
		},
		Protected: []httptransport.Routes{
			reghandler.New(a.Registration, a.Logger),
			listinghandler.New(a.Listing, a.Logger,
				listinghandler.WithMetrics(a.ListingMetrics),
				listinghandler.WithAllowedOrigins(cfg.AllowedOrigins),
			),
		},
	}), nil
}
