package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 24 * time.Hour

// AuthService handles admin login and resolves sessions into users.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	ttl      time.Duration
	cost     int
	now      func() time.Time
	newID    func() string
	newToken func() string
}

func NewAuthService(users UserRepository, sessions SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		newID:    uuid.NewString,
		newToken: newSessionToken,
	}
}

// WithClock replaces the time source; used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// WithHashCost overrides the bcrypt cost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// TTL is the lifetime of new sessions.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domain.AuthSession{}, domain.Invalid("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.AuthSession{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.AuthSession{}, domain.ErrInvalidCredentials
	}

	session := domain.AuthSession{
		Token: s.newToken(),
		User: domain.CurrentUser{
			ID:      user.ID,
			Email:   user.Email,
			Name:    user.Name,
			IsAdmin: user.IsAdmin,
		},
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return domain.AuthSession{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, token)
}

// Authenticate resolves a session token into the current user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.CurrentUser, error) {
	if token == "" {
		return domain.CurrentUser{}, domain.ErrUnauthorized
	}
	session, err := s.sessions.GetSession(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.CurrentUser{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.CurrentUser{}, fmt.Errorf("load session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return domain.CurrentUser{}, domain.ErrUnauthorized
	}
	return session.User, nil
}

// RequireAdmin is Authenticate plus the isAdmin check.
func (s *AuthService) RequireAdmin(ctx context.Context, token string) (domain.CurrentUser, error) {
	user, err := s.Authenticate(ctx, token)
	if err != nil {
		return domain.CurrentUser{}, err
	}
	if !user.IsAdmin {
		return domain.CurrentUser{}, domain.ErrUnauthorized
	}
	return user, nil
}

// EnsureAdmin creates an admin account unless one already exists. It reports
// whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, domain.Invalid("admin email and password are required")
	}
	exists, err := s.users.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	err = s.users.CreateUser(ctx, domain.User{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newSessionToken joins two random UUIDs into a 64-character hex token.
func newSessionToken() string {
	a, b := uuid.New(), uuid.New()
	return hex.EncodeToString(a[:]) + hex.EncodeToString(b[:])
}
