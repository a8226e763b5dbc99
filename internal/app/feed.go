package app

import (
	"sync"

	"daily-trivia-service/internal/domain"
)

// Feed fans out newly graded submissions to live subscribers in this process.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.RecentSubmission]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.RecentSubmission]struct{})}
}

// Publish delivers sub to every subscriber without blocking.
func (f *Feed) Publish(sub domain.RecentSubmission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- sub:
		default:
			// Full buffer: drop the oldest event so a slow reader never stalls grading.
			select {
			case <-ch:
			default:
			}
			ch <- sub
		}
	}
}

// Subscribe returns a channel of submissions. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *Feed) Subscribe() (<-chan domain.RecentSubmission, func()) {
	ch := make(chan domain.RecentSubmission, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Subscribers reports the number of live subscribers.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
