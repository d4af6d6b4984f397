package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"painel/internal/auth/models"
	id "painel/pkg/domain"
	"painel/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix        = "painel:session:"
	accountSessionKeyPrefix = "painel:account_sessions:"
)

type sessionJSON struct {
	ID        id.SessionID `json:"id"`
	AccountID id.AccountID `json:"account_id"`
	Email     string       `json:"email"`
	Device    string       `json:"device"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	RevokedAt *time.Time   `json:"revoked_at,omitempty"`
}

func toJSON(s *models.Session) sessionJSON {
	return sessionJSON{
		ID:        s.ID,
		AccountID: s.AccountID,
		Email:     s.Email,
		Device:    s.Device,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
}

func (j sessionJSON) toModel() *models.Session {
	return &models.Session{
		ID:        j.ID,
		AccountID: j.AccountID,
		Email:     j.Email,
		Device:    j.Device,
		CreatedAt: j.CreatedAt,
		ExpiresAt: j.ExpiresAt,
		RevokedAt: j.RevokedAt,
	}
}

// RedisStore keeps sessions in Redis so every instance sees the same sign-ins.
// Keys expire with the session.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func sessionKey(sessionID id.SessionID) string {
	return sessionKeyPrefix + sessionID.String()
}

func accountKey(accountID id.AccountID) string {
	return accountSessionKeyPrefix + accountID.String()
}

func (s *RedisStore) Create(ctx context.Context, session *models.Session) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session already expired: %w", sentinel.ErrExpired)
	}
	data, err := json.Marshal(toJSON(session))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, ttl)
	pipe.SAdd(ctx, accountKey(session.AccountID), session.ID.String())
	pipe.Expire(ctx, accountKey(session.AccountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var j sessionJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return j.toModel(), nil
}

// Revoke rewrites the session with its revocation time, keeping the remaining TTL.
func (s *RedisStore) Revoke(ctx context.Context, sessionID id.SessionID, at time.Time) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !session.Revoke(at) {
		return ErrSessionRevoked
	}
	data, err := json.Marshal(toJSON(session))
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByAccount(ctx context.Context, accountID id.AccountID) error {
	ids, err := s.client.SMembers(ctx, accountKey(accountID)).Result()
	if err != nil {
		return fmt.Errorf("list account sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, sid := range ids {
		keys = append(keys, sessionKeyPrefix+sid)
	}
	keys = append(keys, accountKey(accountID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete account sessions: %w", err)
	}
	return nil
}
