// Package token signs and verifies the session tokens handed to operators.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "painel/pkg/domain"
	dErrors "painel/pkg/domain-errors"
)

const issuer = "painel"

// Claims carries the session reference. The JWT id is the session id so a
// revoked session invalidates its token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key), now: time.Now}
}

// Issue signs a token for the session that expires with it.
func (s *Signer) Issue(sessionID id.SessionID, accountID id.AccountID, email string, expiresAt time.Time) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Subject:   accountID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and returns the session id.
func (s *Signer) Verify(raw string) (id.SessionID, *Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.SessionID{}, nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
		}
		return id.SessionID{}, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	sessionID, err := id.ParseSessionID(claims.ID)
	if err != nil {
		return id.SessionID{}, nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return sessionID, claims, nil
}
