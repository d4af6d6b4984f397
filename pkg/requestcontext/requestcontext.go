// Package requestcontext carries request-scoped values (request id, request time,
// client metadata and the signed-in operator) through context.Context.
package requestcontext

import (
	"context"
	"time"

	id "painel/pkg/domain"
)

type (
	requestIDKey struct{}
	timeKey      struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	accountIDKey struct{}
	sessionIDKey struct{}
	emailKey     struct{}
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id set by the RequestID middleware, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithTime pins the request-scoped "now". Tests, workers and the CLI use it
// outside the HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// Now returns the request-scoped time, falling back to time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(timeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithOperator records the signed-in operator resolved by the session gate.
func WithOperator(ctx context.Context, accountID id.AccountID, sessionID id.SessionID, email string) context.Context {
	ctx = context.WithValue(ctx, accountIDKey{}, accountID)
	ctx = context.WithValue(ctx, sessionIDKey{}, sessionID)
	return context.WithValue(ctx, emailKey{}, email)
}

func AccountID(ctx context.Context) id.AccountID {
	v, _ := ctx.Value(accountIDKey{}).(id.AccountID)
	return v
}

func SessionID(ctx context.Context) id.SessionID {
	v, _ := ctx.Value(sessionIDKey{}).(id.SessionID)
	return v
}

func OperatorEmail(ctx context.Context) string {
	v, _ := ctx.Value(emailKey{}).(string)
	return v
}
