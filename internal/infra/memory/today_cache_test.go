package memory

import (
	"context"
	"testing"
	"time"

	"daily-trivia-service/internal/domain"
)

func TestTodayCacheCaches(t *testing.T) {
	store := NewStore()
	_ = store.CreateQuestion(context.Background(), sampleQuestion("q1", day(2024, 1, 1)))
	loader := &countingLoader{PublishedLoader: store}
	cache := NewTodayCache(loader, time.Minute)

	got, err := cache.Today(context.Background(), day(2024, 1, 2))
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if got.ID != "q1" {
		t.Fatalf("expected q1, got %s", got.ID)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.Today(context.Background(), day(2024, 1, 2)); err != nil {
		t.Fatalf("today 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}

	// A different day is a different key.
	_, _ = cache.Today(context.Background(), day(2024, 1, 3))
	if loader.calls != 2 {
		t.Fatalf("expected miss for new day, loader calls %d", loader.calls)
	}
}

func TestTodayCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	_ = store.CreateQuestion(ctx, sampleQuestion("q1", day(2024, 1, 1)))
	cache := NewTodayCache(store, time.Hour)

	if got, _ := cache.Today(ctx, day(2024, 1, 5)); got.ID != "q1" {
		t.Fatalf("expected q1, got %s", got.ID)
	}

	_ = store.CreateQuestion(ctx, sampleQuestion("q2", day(2024, 1, 4)))
	if got, _ := cache.Today(ctx, day(2024, 1, 5)); got.ID != "q1" {
		t.Fatalf("expected cached q1 before invalidation, got %s", got.ID)
	}

	cache.Invalidate(ctx)
	if got, _ := cache.Today(ctx, day(2024, 1, 5)); got.ID != "q2" {
		t.Fatalf("expected q2 after invalidation, got %s", got.ID)
	}
}

func TestTodayCacheDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{PublishedLoader: NewStore()}
	cache := NewTodayCache(loader, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.Today(ctx, day(2024, 1, 1)); err != domain.ErrNoQuestionToday {
			t.Fatalf("expected no question, got %v", err)
		}
	}
	if loader.calls != 2 {
		t.Fatalf("expected misses to reach the loader, got %d calls", loader.calls)
	}
}

type countingLoader struct {
	PublishedLoader
	calls int
}

func (l *countingLoader) LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error) {
	l.calls++
	return l.PublishedLoader.LatestPublished(ctx, cutoff)
}
