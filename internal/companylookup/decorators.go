package companylookup

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"painel/internal/companylookup/metrics"
	"painel/pkg/platform/circuit"
	"painel/pkg/platform/tracer"
)

// Cache stores resolved names. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, taxID string) (name string, ok bool, err error)
	Set(ctx context.Context, taxID, name string) error
}

// breakerResolver fails fast while the registry looks unhealthy. Only
// transient failures count against it.
type breakerResolver struct {
	next    Resolver
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (r *breakerResolver) ResolveCompanyName(ctx context.Context, taxID string) (string, error) {
	if !r.breaker.Allow() {
		r.metrics.IncBreakerRejected()
		return "", newLookupError(CategoryOutage, "circuit open", nil)
	}
	name, err := r.next.ResolveCompanyName(ctx, taxID)
	if err != nil && isTransient(err) {
		if change := r.breaker.RecordFailure(); change.Opened {
			r.metrics.SetBreakerOpen(true)
			r.logger.WarnContext(ctx, "company registry circuit opened", "breaker", r.breaker.Name(), "error", err)
		}
		return "", err
	}
	if change := r.breaker.RecordSuccess(); change.Closed {
		r.metrics.SetBreakerOpen(false)
		r.logger.InfoContext(ctx, "company registry circuit closed", "breaker", r.breaker.Name())
	}
	return name, err
}

// rateLimitedResolver spaces outbound calls to the public registry.
type rateLimitedResolver struct {
	next    Resolver
	limiter *rate.Limiter
}

func (r *rateLimitedResolver) ResolveCompanyName(ctx context.Context, taxID string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", newLookupError(CategoryTimeout, "gave up waiting for rate limiter", err)
	}
	return r.next.ResolveCompanyName(ctx, taxID)
}

// cachedResolver serves names from Cache. Failures are never cached, and a
// broken cache degrades to a direct lookup.
type cachedResolver struct {
	next    Resolver
	cache   Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func (r *cachedResolver) ResolveCompanyName(ctx context.Context, taxID string) (string, error) {
	name, ok, err := r.cache.Get(ctx, taxID)
	switch {
	case err != nil:
		r.metrics.IncCacheError()
		r.logger.WarnContext(ctx, "company name cache read failed", "error", err)
	case ok:
		r.metrics.IncCacheHit()
		return name, nil
	default:
		r.metrics.IncCacheMiss()
	}

	name, err = r.next.ResolveCompanyName(ctx, taxID)
	if err != nil {
		return "", err
	}
	if err := r.cache.Set(ctx, taxID, name); err != nil {
		r.metrics.IncCacheError()
		r.logger.WarnContext(ctx, "company name cache write failed", "error", err)
	}
	return name, nil
}

// dedupResolver collapses concurrent lookups of the same tax id into one
// call. The shared call is detached from any single caller's cancellation;
// each caller still stops waiting when its own context ends.
type dedupResolver struct {
	next    Resolver
	group   singleflight.Group
	timeout time.Duration
	metrics *metrics.Metrics
}

func (r *dedupResolver) ResolveCompanyName(ctx context.Context, taxID string) (string, error) {
	ch := r.group.DoChan(taxID, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.next.ResolveCompanyName(callCtx, taxID)
	})
	select {
	case res := <-ch:
		if res.Shared {
			r.metrics.IncDeduplicated()
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", newLookupError(CategoryTimeout, "lookup abandoned", ctx.Err())
	}
}

// instrumentedResolver records one span and one outcome per lookup.
type instrumentedResolver struct {
	next    Resolver
	tracer  tracer.Tracer
	metrics *metrics.Metrics
}

func (r *instrumentedResolver) ResolveCompanyName(ctx context.Context, taxID string) (name string, err error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, tracer.SpanCompanyLookup,
		tracer.String(tracer.AttrTaxIDHash, tracer.HashTaxID(taxID)))
	defer func() {
		outcome := outcomeOf(name, err)
		span.SetAttributes(tracer.String(tracer.AttrOutcome, outcome))
		span.End(err)
		r.metrics.ObserveLookup(outcome, time.Since(start).Seconds())
	}()
	return r.next.ResolveCompanyName(ctx, taxID)
}

func outcomeOf(name string, err error) string {
	switch {
	case err != nil:
		return string(CategoryOf(err))
	case name == NotInformed:
		return "not_informed"
	default:
		return "resolved"
	}
}
