package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps auth sessions in Redis so every instance behind a load
// balancer sees the same logins. Keys expire with the session.
//
//	SET trivia:session:{token} {json} PX {ttl}
type SessionStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, clock: time.Now}
}

func (s *SessionStore) SaveSession(ctx context.Context, session domain.AuthSession) error {
	ttl := session.ExpiresAt.Sub(s.clock())
	if ttl <= 0 {
		return fmt.Errorf("save session: already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(session.Token), data, ttl).Err()
}

func (s *SessionStore) GetSession(ctx context.Context, token string) (domain.AuthSession, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AuthSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("get session: %w", err)
	}
	var session domain.AuthSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.AuthSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return "trivia:session:" + token
}
