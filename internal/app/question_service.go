package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// CreateQuestionRequest is the admin input for a new question.
type CreateQuestionRequest struct {
	Question    string
	Answer      string
	Hint        string
	PublishDate string
	Active      *bool // defaults to true
}

// UpdateQuestionRequest is a partial update; nil fields are left untouched.
type UpdateQuestionRequest struct {
	Question    *string
	Answer      *string
	Hint        *string
	PublishDate *string
	Active      *bool
}

// QuestionService contains question management and today's-question resolution.
type QuestionService struct {
	questions QuestionRepository
	today     TodayResolver
	loc       *time.Location
	now       func() time.Time
	newID     func() string
}

func NewQuestionService(questions QuestionRepository, today TodayResolver, loc *time.Location) *QuestionService {
	if loc == nil {
		loc = time.Local
	}
	return &QuestionService{
		questions: questions,
		today:     today,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock replaces the time source; used by tests for deterministic days.
func (s *QuestionService) WithClock(now func() time.Time) *QuestionService {
	s.now = now
	return s
}

// Today returns today's question in the service timezone.
func (s *QuestionService) Today(ctx context.Context) (domain.PublicQuestion, error) {
	return s.TodaysQuestion(ctx, s.now())
}

// TodaysQuestion returns the active question with the latest publish date on or before
// the start of the day containing now. The answer is never included.
func (s *QuestionService) TodaysQuestion(ctx context.Context, now time.Time) (domain.PublicQuestion, error) {
	return s.today.Today(ctx, StartOfDay(now, s.loc))
}

// Create validates and stores a new question.
func (s *QuestionService) Create(ctx context.Context, req CreateQuestionRequest) (domain.Question, error) {
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" || strings.TrimSpace(req.PublishDate) == "" {
		return domain.Question{}, domain.Invalid("Question, answer, and publishDate are required")
	}
	publishDate, err := ParsePublishDate(req.PublishDate, s.loc)
	if err != nil {
		return domain.Question{}, err
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := s.now()
	q := domain.Question{
		ID:          s.newID(),
		Question:    req.Question,
		Answer:      req.Answer,
		Hint:        req.Hint,
		PublishDate: publishDate,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", err)
	}
	s.today.Invalidate(ctx)
	return q, nil
}

// Get returns the full record including the answer. Admin only.
func (s *QuestionService) Get(ctx context.Context, id string) (domain.Question, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return s.questions.GetQuestion(ctx, id)
}

// Update applies a partial update and returns the stored result.
func (s *QuestionService) Update(ctx context.Context, id string, req UpdateQuestionRequest) (domain.Question, error) {
	if req.Question != nil && strings.TrimSpace(*req.Question) == "" {
		return domain.Question{}, domain.Invalid("Question cannot be empty")
	}
	if req.Answer != nil && strings.TrimSpace(*req.Answer) == "" {
		return domain.Question{}, domain.Invalid("Answer cannot be empty")
	}
	var publishDate *time.Time
	if req.PublishDate != nil {
		d, err := ParsePublishDate(*req.PublishDate, s.loc)
		if err != nil {
			return domain.Question{}, err
		}
		publishDate = &d
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	if req.Question != nil {
		q.Question = *req.Question
	}
	if req.Answer != nil {
		q.Answer = *req.Answer
	}
	if req.Hint != nil {
		q.Hint = *req.Hint
	}
	if publishDate != nil {
		q.PublishDate = *publishDate
	}
	if req.Active != nil {
		q.Active = *req.Active
	}
	q.UpdatedAt = s.now()

	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		return domain.Question{}, err
	}
	s.today.Invalidate(ctx)
	return q, nil
}

// Delete removes a question together with its submissions.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrQuestionNotFound
	}
	if err := s.questions.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.today.Invalidate(ctx)
	return nil
}

// List returns one page of questions, newest publish date first. Non-positive
// page or limit fall back to defaults; limit is capped.
func (s *QuestionService) List(ctx context.Context, page, limit int) (domain.QuestionPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	questions, total, err := s.questions.ListQuestions(ctx, (page-1)*limit, limit)
	if err != nil {
		return domain.QuestionPage{}, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return domain.QuestionPage{
		Questions: questions,
		Pagination: domain.Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParsePublishDate accepts YYYY-MM-DD or RFC 3339 and returns the start of that day in loc.
func ParsePublishDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.Invalid("publishDate must be YYYY-MM-DD or RFC 3339")
	}
	return StartOfDay(t, loc), nil
}
