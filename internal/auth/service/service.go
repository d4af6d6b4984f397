package service

import (
	"context"
	"log/slog"
	"time"

	"painel/internal/auth/metrics"
	"painel/internal/auth/models"
	"painel/internal/auth/token"
	id "painel/pkg/domain"
	"painel/pkg/platform/audit"
)

// CredentialStore persists credentials.
// Error Contract: Find and Delete return sentinel.ErrNotFound for unknown
// accounts; Create returns sentinel.ErrAlreadyUsed for a taken e-mail.
type CredentialStore interface {
	Create(ctx context.Context, c *models.Credential) error
	FindByID(ctx context.Context, accountID id.AccountID) (*models.Credential, error)
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
	Delete(ctx context.Context, accountID id.AccountID) error
}

// SessionStore persists sessions.
// Error Contract: FindByID and Revoke return sentinel.ErrNotFound for unknown
// sessions; Revoke returns sentinel.ErrInvalidState when already revoked.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Revoke(ctx context.Context, sessionID id.SessionID, at time.Time) error
	DeleteByAccount(ctx context.Context, accountID id.AccountID) error
}

// TokenSigner issues and verifies session tokens.
type TokenSigner interface {
	Issue(sessionID id.SessionID, accountID id.AccountID, email string, expiresAt time.Time) (string, error)
	Verify(raw string) (id.SessionID, *token.Claims, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const defaultSessionTTL = 12 * time.Hour

// Service is the credential system: accounts, sign-in and session checks.
type Service struct {
	credentials CredentialStore
	sessions    SessionStore
	tokens      TokenSigner
	sessionTTL  time.Duration
	hashCost    int
	logger      *slog.Logger
	audit       AuditPublisher
	metrics     *metrics.Metrics
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

// WithSessionTTL sets how long a sign-in stays valid. Non-positive values keep the default.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

func New(credentials CredentialStore, sessions SessionStore, tokens TokenSigner, opts ...Option) *Service {
	svc := &Service{
		credentials: credentials,
		sessions:    sessions,
		tokens:      tokens,
		sessionTTL:  defaultSessionTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}
