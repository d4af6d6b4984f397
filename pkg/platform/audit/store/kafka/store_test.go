package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painel/internal/platform/kafka/producer"
	id "painel/pkg/domain"
	audit "painel/pkg/platform/audit"
)

type captureProducer struct {
	msgs []*producer.Message
	err  error
}

func (c *captureProducer) Produce(_ context.Context, msg *producer.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestStore_AppendProducesKeyedJSON(t *testing.T) {
	p := &captureProducer{}
	store := New(p, "painel.audit")
	accountID := id.NewAccountID()
	event := audit.Event{
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Action:    audit.ActionTenantRegistered,
		AccountID: accountID,
		Subject:   "11222333000181",
		RequestID: "req-9",
	}

	require.NoError(t, store.Append(context.Background(), event))

	require.Len(t, p.msgs, 1)
	msg := p.msgs[0]
	assert.Equal(t, "painel.audit", msg.Topic)
	assert.Equal(t, accountID.String(), string(msg.Key))
	assert.Equal(t, "tenant.registered", msg.Headers["action"])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "11222333000181", decoded["subject"])
	assert.Equal(t, accountID.String(), decoded["account_id"])
}

func TestStore_AppendWrapsProducerError(t *testing.T) {
	store := New(&captureProducer{err: errors.New("broker unreachable")}, "painel.audit")
	err := store.Append(context.Background(), audit.Event{Action: audit.ActionSessionCreated})
	assert.ErrorContains(t, err, "broker unreachable")
}
