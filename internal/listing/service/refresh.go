package service

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"painel/internal/companylookup"
	"painel/internal/listing/models"
	tenantmodels "painel/internal/tenant/models"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/platform/tracer"
	"painel/pkg/requestcontext"
)

// Snapshot is the row set of one refresh. Generations grow with every
// refresh started, so a higher generation always reflects a later read.
type Snapshot struct {
	Generation uint64
	Rows       []models.Row
}

// Refresh reads every tenant and resolves all company names. A failed lookup
// degrades its own row to companylookup.ErrorResolving and never fails the
// refresh. Rows come back ordered by creation time.
func (s *Service) Refresh(ctx context.Context) (snap Snapshot, err error) {
	gen := s.generation.Add(1)
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanListingRefresh, tracer.Int(tracer.AttrGeneration, int(gen)))
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.ObserveRefresh(outcome, time.Since(start))
		span.SetAttributes(tracer.Int(tracer.AttrRowCount, len(snap.Rows)))
		span.End(err)
	}()

	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}

	rows := make([]models.Row, len(tenants))
	var unresolved atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, t := range tenants {
		g.Go(func() error {
			rows[i] = models.RowFromTenant(t, s.companyName(ctx, t, &unresolved), s.location)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, dErrors.Wrap(err, dErrors.CodeTimeout, "refresh cancelled")
	}

	models.SortRows(rows)
	s.metrics.AddUnresolved(int(unresolved.Load()))
	return Snapshot{Generation: gen, Rows: rows}, nil
}

func (s *Service) companyName(ctx context.Context, t *tenantmodels.Tenant, unresolved *atomic.Int64) string {
	if t.TaxID == "" {
		return companylookup.NotInformed
	}
	name, err := s.resolver.ResolveCompanyName(ctx, t.TaxID)
	if err != nil {
		if unresolved != nil {
			unresolved.Add(1)
		}
		s.logger.WarnContext(ctx, "company name lookup failed",
			"account_id", t.AccountID.String(),
			"category", string(companylookup.CategoryOf(err)),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return companylookup.ErrorResolving
	}
	if name == "" {
		return companylookup.NotInformed
	}
	return name
}
