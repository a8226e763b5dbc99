package redis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"daily-trivia-service/internal/domain"
	"daily-trivia-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestTodayCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	_ = store.CreateQuestion(ctx, sampleQuestion())
	loader := &countingLoader{PublishedLoader: store}
	cache := NewTodayCache(newClient(mr), loader, time.Minute)

	got, err := cache.Today(ctx, day(2024, 1, 2))
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if got.ID != "q1" || got.Question != "Capital of France?" {
		t.Fatalf("unexpected question %+v", got)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("trivia:today:0:2024-01-02") {
		t.Fatalf("expected cached key")
	}
	raw, _ := mr.Get("trivia:today:0:2024-01-02")
	if raw == "" || strings.Contains(raw, "Paris") {
		t.Fatalf("cached value must not carry the answer: %q", raw)
	}

	// Second call should hit cache, loader not incremented.
	_, _ = cache.Today(ctx, day(2024, 1, 2))
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestTodayCacheInvalidateClearsAllDays(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	_ = store.CreateQuestion(ctx, sampleQuestion())
	cache := NewTodayCache(newClient(mr), store, time.Minute)

	_, _ = cache.Today(ctx, day(2024, 1, 2))
	_, _ = cache.Today(ctx, day(2024, 1, 3))
	_ = mr.Set("unrelated", "keep")

	cache.Invalidate(ctx)
	if mr.Exists("trivia:today:0:2024-01-02") || mr.Exists("trivia:today:0:2024-01-03") {
		t.Fatalf("expected today keys removed")
	}
	if !mr.Exists("unrelated") {
		t.Fatalf("expected unrelated key kept")
	}
}

func TestTodayCacheDropsLoadStartedBeforeInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	q := sampleQuestion()
	_ = store.CreateQuestion(ctx, q)
	loader := &gatedLoader{
		PublishedLoader: store,
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	cache := NewTodayCache(newClient(mr), loader, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.Today(ctx, day(2024, 1, 2))
	}()
	<-loader.entered

	// The in-flight load already read q1 as active.
	q.Active = false
	_ = store.UpdateQuestion(ctx, q)
	cache.Invalidate(ctx)

	// A reader after the write must not join the stale load.
	if got, err := cache.Today(ctx, day(2024, 1, 2)); !errors.Is(err, domain.ErrNoQuestionToday) {
		t.Fatalf("expected no question after deactivation, got %+v err=%v", got, err)
	}

	close(loader.release)
	<-done

	if got, err := cache.Today(ctx, day(2024, 1, 2)); !errors.Is(err, domain.ErrNoQuestionToday) {
		t.Fatalf("stale load was cached after invalidation: %+v err=%v", got, err)
	}
}

func TestTodayCacheFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	ctx := context.Background()
	store := memory.NewStore()
	_ = store.CreateQuestion(ctx, sampleQuestion())
	cache := NewTodayCache(client, store, time.Minute)

	got, err := cache.Today(ctx, day(2024, 1, 2))
	if err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
	if got.ID != "q1" {
		t.Fatalf("expected q1, got %s", got.ID)
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

func sampleQuestion() domain.Question {
	publish := day(2024, 1, 1)
	return domain.Question{
		ID:          "q1",
		Question:    "Capital of France?",
		Answer:      "Paris",
		PublishDate: publish,
		Active:      true,
		CreatedAt:   publish,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// gatedLoader blocks its first load after reading, until release is closed.
type gatedLoader struct {
	PublishedLoader
	gated   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (l *gatedLoader) LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error) {
	q, err := l.PublishedLoader.LatestPublished(ctx, cutoff)
	if l.gated.CompareAndSwap(false, true) {
		close(l.entered)
		<-l.release
	}
	return q, err
}
