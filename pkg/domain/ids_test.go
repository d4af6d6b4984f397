package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "painel/pkg/domain-errors"
)

func TestParseAccountID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("11222333000181")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round trips a generated id", func(t *testing.T) {
		want := NewAccountID()
		got, err := ParseAccountID(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.False(t, got.IsNil())
	})
}

func TestParseSessionID(t *testing.T) {
	want := NewSessionID()
	got, err := ParseSessionID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var zero SessionID
	assert.True(t, zero.IsNil())
}

func TestAccountIDJSON(t *testing.T) {
	accountID := NewAccountID()

	b, err := json.Marshal(map[string]AccountID{"account_id": accountID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"account_id":"`+accountID.String()+`"}`, string(b))

	var decoded map[string]AccountID
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, accountID, decoded["account_id"])
}
