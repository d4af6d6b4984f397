// Package kafka ships audit events to a Kafka topic as JSON records keyed by
// account id, so all events for one account land on one partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"painel/internal/platform/kafka/producer"
	audit "painel/pkg/platform/audit"
)

// Producer is the subset of producer.Producer the store needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

type Store struct {
	producer Producer
	topic    string
}

func New(p Producer, topic string) *Store {
	return &Store{producer: p, topic: topic}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.AccountID.String()),
		Value: value,
		Headers: map[string]string{
			"action":     string(event.Action),
			"request_id": event.RequestID,
		},
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
