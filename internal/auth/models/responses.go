package models

import (
	"time"

	id "painel/pkg/domain"
)

// SessionResponse is returned by sign-in and GET /api/session.
type SessionResponse struct {
	AccountID id.AccountID `json:"account_id"`
	Email     string       `json:"email"`
	ExpiresAt time.Time    `json:"expires_at"`
	Token     string       `json:"token,omitempty"`
}

func NewSessionResponse(s *Session, token string) *SessionResponse {
	return &SessionResponse{
		AccountID: s.AccountID,
		Email:     s.Email,
		ExpiresAt: s.ExpiresAt,
		Token:     token,
	}
}
