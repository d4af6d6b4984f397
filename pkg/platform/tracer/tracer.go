// Package tracer is a small tracing abstraction. Domain code starts spans
// through Tracer without importing OpenTelemetry; NewOTel adapts it to the
// global provider and NewNoop serves tests.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration records value in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashTaxID returns a short SHA-256 prefix of a tax id so traces can be
// correlated without carrying the identifier itself.
func HashTaxID(taxID string) string {
	if taxID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(taxID))
	return hex.EncodeToString(sum[:8])
}

const (
	SpanCompanyLookup  = "companylookup.resolve"
	SpanListingRefresh = "listing.refresh"
	SpanRegistration   = "registration.submit"
)

const (
	AttrTaxIDHash    = "tax_id.hash"
	AttrCacheHit     = "cache.hit"
	AttrOutcome      = "outcome"
	AttrRowCount     = "rows"
	AttrGeneration   = "generation"
	AttrBreakerState = "breaker.state"
)
