package memory

import (
	"context"
	"sync"

	"daily-trivia-service/internal/domain"
)

// UserRepository is an in-memory implementation of app.UserRepository keyed by email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return domain.ErrUserExists
	}
	r.users[u.Email] = u
	return nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) HasAdmin(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}
