package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/google/uuid"
)

// DefaultRecentLimit is how many submissions the front page shows.
const DefaultRecentLimit = 10

// GradingService validates, grades, and records participant submissions.
type GradingService struct {
	questions   QuestionRepository
	submissions SubmissionRepository
	today       TodayResolver
	publisher   SubmissionPublisher
	loc         *time.Location
	recentLimit int
	now         func() time.Time
	newID       func() string
}

// NewGradingService wires the grading use case. publisher may be nil.
func NewGradingService(questions QuestionRepository, submissions SubmissionRepository, today TodayResolver, publisher SubmissionPublisher, loc *time.Location) *GradingService {
	if loc == nil {
		loc = time.Local
	}
	return &GradingService{
		questions:   questions,
		submissions: submissions,
		today:       today,
		publisher:   publisher,
		loc:         loc,
		recentLimit: DefaultRecentLimit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// WithClock replaces the time source; used by tests.
func (s *GradingService) WithClock(now func() time.Time) *GradingService {
	s.now = now
	return s
}

// WithRecentLimit overrides how many submissions Recent returns.
func (s *GradingService) WithRecentLimit(limit int) *GradingService {
	if limit > 0 {
		s.recentLimit = limit
	}
	return s
}

// SubmitAnswer grades an answer and stores it. Validation runs in order: required
// fields, question existence, then uniqueness of (question, name). The storage
// layer enforces uniqueness as well, so a concurrent duplicate also ends in
// domain.ErrAlreadySubmitted.
func (s *GradingService) SubmitAnswer(ctx context.Context, req domain.SubmitRequest) (domain.GradeResult, error) {
	questionID := strings.TrimSpace(req.QuestionID)
	name := strings.TrimSpace(req.Name)
	if questionID == "" || name == "" || strings.TrimSpace(req.Answer) == "" {
		return domain.GradeResult{}, domain.Invalid("QuestionId, name, and answer are required")
	}

	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.GradeResult{}, err
	}

	exists, err := s.submissions.SubmissionExists(ctx, questionID, name)
	if err != nil {
		return domain.GradeResult{}, fmt.Errorf("check submission: %w", err)
	}
	if exists {
		return domain.GradeResult{}, domain.ErrAlreadySubmitted
	}

	sub := domain.Submission{
		ID:         s.newID(),
		QuestionID: question.ID,
		Name:       name,
		Answer:     req.Answer,
		Correct:    Grade(req.Answer, question.Answer),
		CreatedAt:  s.now(),
	}
	if err := s.submissions.CreateSubmission(ctx, sub); err != nil {
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			return domain.GradeResult{}, err
		}
		return domain.GradeResult{}, fmt.Errorf("create submission: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(sub.Recent())
	}

	return domain.GradeResult{
		Correct: sub.Correct,
		Submission: domain.SubmissionReceipt{
			ID:        sub.ID,
			Name:      sub.Name,
			CreatedAt: sub.CreatedAt,
		},
	}, nil
}

// Recent returns the latest submissions for today's question.
func (s *GradingService) Recent(ctx context.Context) ([]domain.RecentSubmission, error) {
	question, err := s.today.Today(ctx, StartOfDay(s.now(), s.loc))
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions.RecentSubmissions(ctx, question.ID, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	recent := make([]domain.RecentSubmission, 0, len(subs))
	for _, sub := range subs {
		recent = append(recent, sub.Recent())
	}
	return recent, nil
}

// Grade reports whether submitted matches expected after trimming and lowercasing both.
func Grade(submitted, expected string) bool {
	return normalize(submitted) == normalize(expected)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
