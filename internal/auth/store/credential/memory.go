package credential

import (
	"context"
	"fmt"
	"sync"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
)

// InMemoryStore keeps credentials in memory for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.AccountID]*models.Credential
	byEmail map[string]id.AccountID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.AccountID]*models.Credential),
		byEmail: make(map[string]id.AccountID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Credential) error {
	if c == nil {
		return fmt.Errorf("credential is required")
	}
	key := models.NormalizeEmail(c.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[key]; taken {
		return fmt.Errorf("e-mail already registered: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *c
	s.byID[c.AccountID] = &stored
	s.byEmail[key] = c.AccountID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[accountID]
	if !ok {
		return nil, fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
	}
	found := *c
	return &found, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
	}
	found := *s.byID[accountID]
	return &found, nil
}

func (s *InMemoryStore) Delete(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[accountID]
	if !ok {
		return fmt.Errorf("credential not found: %w", sentinel.ErrNotFound)
	}
	delete(s.byEmail, models.NormalizeEmail(c.Email))
	delete(s.byID, accountID)
	return nil
}
