package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
)

// InMemoryStore stores sessions in memory for tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.Session
}

func New() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionID]*models.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, session *models.Session) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	s.sessions[session.ID] = &stored
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	found := *session
	return &found, nil
}

// Revoke marks the session revoked. Revoking twice returns ErrInvalidState.
func (s *InMemoryStore) Revoke(_ context.Context, sessionID id.SessionID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	if !session.Revoke(at) {
		return ErrSessionRevoked
	}
	return nil
}

// DeleteByAccount removes every session of an account, used when its credential is deleted.
func (s *InMemoryStore) DeleteByAccount(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, session := range s.sessions {
		if session.AccountID == accountID {
			delete(s.sessions, key)
		}
	}
	return nil
}
