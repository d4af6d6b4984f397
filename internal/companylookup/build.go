package companylookup

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"painel/internal/companylookup/metrics"
	"painel/pkg/platform/circuit"
	"painel/pkg/platform/tracer"
)

// Options selects the layers wrapped around a Resolver. Zero values leave a
// layer out. No layer retries.
type Options struct {
	Cache            Cache
	RatePerSecond    float64
	BreakerThreshold int
	BreakerCooldown  time.Duration
	Timeout          time.Duration
	Tracer           tracer.Tracer
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
}

// Build wraps base, innermost first: rate limit, circuit breaker, cache,
// in-flight deduplication, then tracing and metrics.
func Build(base Resolver, opts Options) Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := base
	if opts.RatePerSecond > 0 {
		r = &rateLimitedResolver{next: r, limiter: rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)}
	}
	if opts.BreakerThreshold > 0 {
		r = &breakerResolver{
			next: r,
			breaker: circuit.New("company-registry",
				circuit.WithFailureThreshold(opts.BreakerThreshold),
				circuit.WithCooldown(opts.BreakerCooldown),
			),
			metrics: opts.Metrics,
			logger:  logger,
		}
	}
	if opts.Cache != nil {
		r = &cachedResolver{next: r, cache: opts.Cache, metrics: opts.Metrics, logger: logger}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r = &dedupResolver{next: r, timeout: timeout, metrics: opts.Metrics}

	t := opts.Tracer
	if t == nil {
		t = tracer.NewNoop()
	}
	return &instrumentedResolver{next: r, tracer: t, metrics: opts.Metrics}
}
