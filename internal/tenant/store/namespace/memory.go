package namespace

import (
	"context"
	"fmt"
	"sync"

	"painel/internal/tenant/models"
	"painel/pkg/platform/sentinel"
	"painel/pkg/platform/tx"
)

// InMemoryStore keeps namespace placeholders in memory.
type InMemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]*models.Namespace
}

func New() *InMemoryStore {
	return &InMemoryStore{namespaces: make(map[string]*models.Namespace)}
}

// Ensure creates the placeholder if absent. An existing one is kept as is.
func (s *InMemoryStore) Ensure(ctx context.Context, ns *models.Namespace) error {
	if ns == nil {
		return fmt.Errorf("namespace is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.namespaces[ns.TaxID]; exists {
		return nil
	}
	stored := *ns
	s.namespaces[ns.TaxID] = &stored
	tx.OnRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.namespaces, stored.TaxID)
	})
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, taxID string) (*models.Namespace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.namespaces[taxID]
	if !ok {
		return nil, fmt.Errorf("namespace not found: %w", sentinel.ErrNotFound)
	}
	found := *ns
	return &found, nil
}
