package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"painel/internal/app"
	"painel/internal/platform/config"
	"painel/internal/platform/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "panelctl",
		Short: "Operator tooling for the tenant admin panel",
		Long: `panelctl reads the same environment as the server (DATABASE_URL,
REDIS_URL, CNPJ_API_BASE_URL, ...) and works on the same stores.

Available commands:
  cnpj     - Format and look up company tax ids
  operator - Manage operator credentials
  tenants  - Export the tenant collection`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCNPJCmd(), newOperatorCmd(), newTenantsCmd())
	return root
}

// withApp builds the service graph for one command and closes it afterwards.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	// One-shot commands keep their collectors off the global registry.
	a, err := app.Build(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))

	if a.InMemory() {
		log.Warn("DATABASE_URL not set, working on an empty in-memory store")
	}
	return fn(a)
}
