package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"daily-trivia-service/internal/domain"
)

// Store is an in-memory implementation of app.QuestionRepository and
// app.SubmissionRepository. Both live behind one lock so deletes cascade and the
// (question, name) uniqueness check and insert are a single step.
type Store struct {
	mu          sync.RWMutex
	questions   map[string]domain.Question
	submissions map[submissionKey]domain.Submission
}

type submissionKey struct {
	questionID string
	name       string
}

func NewStore() *Store {
	return &Store{
		questions:   make(map[string]domain.Question),
		submissions: make(map[submissionKey]domain.Submission),
	}
}

func (s *Store) CreateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *Store) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *Store) UpdateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = q
	return nil
}

func (s *Store) DeleteQuestion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	for key := range s.submissions {
		if key.questionID == id {
			delete(s.submissions, key)
		}
	}
	return nil
}

func (s *Store) ListQuestions(_ context.Context, offset, limit int) ([]domain.Question, int, error) {
	s.mu.RLock()
	all := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		all = append(all, q)
	}
	s.mu.RUnlock()

	sortNewestFirst(all)
	total := len(all)
	if offset >= total {
		return []domain.Question{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *Store) LatestPublished(_ context.Context, cutoff time.Time) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  domain.Question
		found bool
	)
	for _, q := range s.questions {
		if !q.Active || q.PublishDate.After(cutoff) {
			continue
		}
		if !found || newer(q, best) {
			best = q
			found = true
		}
	}
	if !found {
		return domain.Question{}, domain.ErrNoQuestionToday
	}
	return best, nil
}

func (s *Store) CreateSubmission(_ context.Context, sub domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[sub.QuestionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	key := submissionKey{questionID: sub.QuestionID, name: sub.Name}
	if _, ok := s.submissions[key]; ok {
		return domain.ErrAlreadySubmitted
	}
	s.submissions[key] = sub
	return nil
}

func (s *Store) SubmissionExists(_ context.Context, questionID, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.submissions[submissionKey{questionID: questionID, name: name}]
	return ok, nil
}

func (s *Store) RecentSubmissions(_ context.Context, questionID string, limit int) ([]domain.Submission, error) {
	s.mu.RLock()
	subs := make([]domain.Submission, 0)
	for key, sub := range s.submissions {
		if key.questionID == questionID {
			subs = append(subs, sub)
		}
	}
	s.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.After(subs[j].CreatedAt)
		}
		return subs[i].ID > subs[j].ID
	})
	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}
	return subs, nil
}

// newer orders questions by publish date, then creation time, then id, all descending.
func newer(a, b domain.Question) bool {
	if !a.PublishDate.Equal(b.PublishDate) {
		return a.PublishDate.After(b.PublishDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func sortNewestFirst(questions []domain.Question) {
	sort.Slice(questions, func(i, j int) bool {
		return newer(questions[i], questions[j])
	})
}
