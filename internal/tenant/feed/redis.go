package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"painel/internal/tenant/models"
)

// DefaultChannel is the Redis pub/sub channel tenant changes travel on.
const DefaultChannel = "painel:tenants:changes"

// RedisBroker shares changes between every server instance through Redis
// pub/sub, so a write on one instance refreshes listings on all of them.
type RedisBroker struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

func NewRedisBroker(client redis.UniversalClient, logger *slog.Logger) *RedisBroker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBroker{client: client, channel: DefaultChannel, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, change models.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode tenant change: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish tenant change: %w", err)
	}
	return nil
}

// Subscribe returns once Redis confirmed the subscription, so changes
// published after it returns are delivered.
func (b *RedisBroker) Subscribe(ctx context.Context) (Subscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe to tenant changes: %w", err)
	}

	sub := &redisSubscription{
		ps:   ps,
		ch:   make(chan models.Change, subscriptionBuffer),
		done: make(chan struct{}),
	}
	go sub.pump(ps.Channel(), b.logger)
	return sub, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	ch   chan models.Change
	done chan struct{}
	once sync.Once
}

func (s *redisSubscription) pump(messages <-chan *redis.Message, logger *slog.Logger) {
	defer close(s.done)
	defer close(s.ch)
	for msg := range messages {
		var change models.Change
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			logger.Warn("discarding malformed tenant change", "error", err)
			continue
		}
		select {
		case s.ch <- change:
		default:
		}
	}
}

func (s *redisSubscription) C() <-chan models.Change {
	return s.ch
}

func (s *redisSubscription) Close() {
	s.once.Do(func() {
		_ = s.ps.Close()
		<-s.done
	})
}
