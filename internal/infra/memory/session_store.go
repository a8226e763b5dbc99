package memory

import (
	"context"
	"sync"
	"time"

	"daily-trivia-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Expired sessions are dropped lazily on lookup.
type SessionStore struct {
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[string]domain.AuthSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		clock:    time.Now,
		sessions: make(map[string]domain.AuthSession),
	}
}

func (s *SessionStore) SaveSession(_ context.Context, session domain.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, token string) (domain.AuthSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.AuthSession{}, domain.ErrSessionNotFound
	}
	if !session.ExpiresAt.After(s.clock()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return domain.AuthSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
