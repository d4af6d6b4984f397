package models

import (
	"strings"
	"time"

	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
	"painel/pkg/validation"
)

// Credential is an account in the credential system. Both operators and
// registered tenants own one; the account id keys the tenant record.
type Credential struct {
	AccountID    id.AccountID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewCredential validates the e-mail and builds a credential with a fresh account id.
func NewCredential(email, passwordHash string, now time.Time) (*Credential, error) {
	email = NormalizeEmail(email)
	if !validation.IsEmail(email) {
		return nil, dErrors.New(dErrors.CodeInvalidEmail, "invalid e-mail address")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash required")
	}
	return &Credential{
		AccountID:    id.NewAccountID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// NormalizeEmail trims and lowercases. E-mails are unique case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is a signed-in operator session.
type Session struct {
	ID        id.SessionID
	AccountID id.AccountID
	Email     string
	Device    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the session can still authenticate requests at now.
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Revoke marks the session revoked. Returns false if it already was.
func (s *Session) Revoke(at time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	s.RevokedAt = &at
	return true
}
