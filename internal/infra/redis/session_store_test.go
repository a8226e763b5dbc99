package redis

import (
	"context"
	"testing"
	"time"

	"daily-trivia-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr))
	session := domain.AuthSession{
		Token:     "tok",
		User:      domain.CurrentUser{ID: "u1", Email: "admin@example.com", IsAdmin: true},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("trivia:session:tok") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("trivia:session:tok"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected ttl within an hour, got %v", ttl)
	}

	got, err := store.GetSession(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.User.IsAdmin || got.User.Email != "admin@example.com" {
		t.Fatalf("unexpected user %+v", got.User)
	}

	if err := store.DeleteSession(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("trivia:session:tok") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, err := store.GetSession(ctx, "tok"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr))
	_ = store.SaveSession(ctx, domain.AuthSession{Token: "tok", ExpiresAt: time.Now().Add(time.Minute)})

	mr.FastForward(2 * time.Minute)
	if _, err := store.GetSession(ctx, "tok"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
