package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	signer := NewSigner(testKey)
	sessionID := id.NewSessionID()
	accountID := id.NewAccountID()

	raw, err := signer.Issue(sessionID, accountID, "ops@acme.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	gotSession, claims, err := signer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, sessionID, gotSession)
	assert.Equal(t, accountID.String(), claims.Subject)
	assert.Equal(t, "ops@acme.com", claims.Email)
}

func TestVerify_Rejects(t *testing.T) {
	signer := NewSigner(testKey)
	sessionID := id.NewSessionID()
	accountID := id.NewAccountID()

	t.Run("expired", func(t *testing.T) {
		raw, err := signer.Issue(sessionID, accountID, "ops@acme.com", time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, _, err = signer.Verify(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.EqualError(t, err, "session expired")
	})

	t.Run("wrong key", func(t *testing.T) {
		raw, err := NewSigner("another-key-another-key-another-k").Issue(sessionID, accountID, "ops@acme.com", time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, _, err = signer.Verify(raw)
		assert.EqualError(t, err, "invalid session token")
	})

	t.Run("unsigned token", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, _, err = signer.Verify(raw)
		assert.EqualError(t, err, "invalid session token")
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := signer.Verify("not.a.token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
