package feed

import (
	"context"
	"sync"

	"painel/internal/tenant/models"
)

// MemoryBroker fans changes out within one process.
type MemoryBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*memorySubscription
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[int]*memorySubscription)}
}

// Publish never blocks. A subscriber whose buffer is full already has a
// pending signal, so the change is dropped for it.
func (b *MemoryBroker) Publish(_ context.Context, change models.Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub.ch <- change:
		default:
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(_ context.Context) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &memorySubscription{
		id:     b.nextID,
		broker: b,
		ch:     make(chan models.Change, subscriptionBuffer),
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// Subscribers reports the number of open subscriptions.
func (b *MemoryBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *MemoryBroker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

type memorySubscription struct {
	id     int
	broker *MemoryBroker
	ch     chan models.Change
	once   sync.Once
}

func (s *memorySubscription) C() <-chan models.Change {
	return s.ch
}

func (s *memorySubscription) Close() {
	s.once.Do(func() { s.broker.remove(s.id) })
}
