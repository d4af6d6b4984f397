package tenant

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"

	"painel/internal/tenant/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
	"painel/pkg/platform/tx"
)

// InMemoryStore keeps tenant records in memory for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	tenants map[id.AccountID]*models.Tenant
}

func New() *InMemoryStore {
	return &InMemoryStore{tenants: make(map[id.AccountID]*models.Tenant)}
}

// Create stores a copy of t. Inside an in-memory transaction the record is
// removed again if the transaction fails.
func (s *InMemoryStore) Create(ctx context.Context, t *models.Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenants[t.AccountID]; exists {
		return fmt.Errorf("tenant already exists for account: %w", sentinel.ErrAlreadyUsed)
	}
	stored := *t
	s.tenants[t.AccountID] = &stored
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.tenants[stored.AccountID] == &stored {
			delete(s.tenants, stored.AccountID)
		}
	})
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, accountID id.AccountID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[accountID]
	if !ok {
		return nil, fmt.Errorf("tenant not found: %w", sentinel.ErrNotFound)
	}
	found := *t
	return &found, nil
}

// ListAll returns copies of every tenant in listing order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		found := *t
		out = append(out, &found)
	}
	SortForListing(out)
	return out, nil
}

// UpdateTerms writes license count and expiry. CreatedAt is never touched.
func (s *InMemoryStore) UpdateTerms(ctx context.Context, accountID id.AccountID, licenseCount int, expiresAt civil.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[accountID]
	if !ok {
		return fmt.Errorf("tenant not found: %w", sentinel.ErrNotFound)
	}
	prevCount, prevExpires := t.LicenseCount, t.ExpiresAt
	t.LicenseCount = licenseCount
	t.ExpiresAt = expiresAt
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.LicenseCount = prevCount
		t.ExpiresAt = prevExpires
	})
	return nil
}
