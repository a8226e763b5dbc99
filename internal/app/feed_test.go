package app_test

import (
	"testing"

	"daily-trivia-service/internal/app"
	"daily-trivia-service/internal/domain"
)

func TestFeedDropsOldestForSlowSubscriber(t *testing.T) {
	feed := app.NewFeed()
	ch, cancel := feed.Subscribe()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.RecentSubmission{Name: string(rune('a' + i))})
	}
	first := <-ch
	if first.Name == "a" {
		t.Fatalf("expected stale events dropped")
	}

	cancel()
	if feed.Subscribers() != 0 {
		t.Fatalf("expected subscriber removed")
	}
	for range ch {
	}
	// Publishing after cancel must not panic on the closed channel.
	feed.Publish(domain.RecentSubmission{Name: "late"})
}
