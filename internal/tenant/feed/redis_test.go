package feed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"painel/internal/tenant/models"
	"painel/pkg/testutil"
)

func newRedisBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBroker(client, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestRedisBroker_RoundTrip(t *testing.T) {
	broker, _ := newRedisBroker(t)
	ctx := context.Background()

	sub, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	change := models.Change{Kind: models.ChangeUpdated, AccountID: testutil.TestIDs.AccountID2, At: testutil.BaseTime}
	require.NoError(t, broker.Publish(ctx, change))

	select {
	case got := <-sub.C():
		assert.Equal(t, change.Kind, got.Kind)
		assert.Equal(t, change.AccountID, got.AccountID)
		assert.True(t, change.At.Equal(got.At))
	case <-time.After(2 * time.Second):
		t.Fatal("change not delivered")
	}
}

func TestRedisBroker_SkipsMalformedPayloads(t *testing.T) {
	broker, mr := newRedisBroker(t)
	ctx := context.Background()

	sub, err := broker.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	mr.Publish(DefaultChannel, "not json")
	require.NoError(t, broker.Publish(ctx, models.Change{Kind: models.ChangeRegistered}))

	select {
	case got := <-sub.C():
		assert.Equal(t, models.ChangeRegistered, got.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("change not delivered")
	}
}

func TestRedisBroker_CloseClosesChannel(t *testing.T) {
	broker, _ := newRedisBroker(t)

	sub, err := broker.Subscribe(context.Background())
	require.NoError(t, err)
	sub.Close()
	sub.Close()

	select {
	case _, ok := <-sub.C():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}
