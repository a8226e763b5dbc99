package app

import (
	"context"
	"time"

	"daily-trivia-service/internal/domain"
)

// QuestionRepository abstracts question storage (in-memory, Postgres).
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q domain.Question) error
	// GetQuestion returns domain.ErrQuestionNotFound for unknown ids.
	GetQuestion(ctx context.Context, id string) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) error
	// DeleteQuestion removes the question and every submission referencing it.
	DeleteQuestion(ctx context.Context, id string) error
	// ListQuestions returns a page ordered by publish date descending and the total count.
	ListQuestions(ctx context.Context, offset, limit int) ([]domain.Question, int, error)
	// LatestPublished returns the active question with the greatest publish date not after cutoff,
	// breaking ties by creation time then id. Returns domain.ErrNoQuestionToday if none qualifies.
	LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error)
}

// SubmissionRepository abstracts submission storage.
type SubmissionRepository interface {
	// CreateSubmission must atomically reject a second submission for the same
	// (question, name) pair with domain.ErrAlreadySubmitted.
	CreateSubmission(ctx context.Context, s domain.Submission) error
	SubmissionExists(ctx context.Context, questionID, name string) (bool, error)
	// RecentSubmissions returns up to limit submissions for a question, newest first.
	RecentSubmissions(ctx context.Context, questionID string, limit int) ([]domain.Submission, error)
}

// UserRepository stores accounts able to sign in.
type UserRepository interface {
	// CreateUser returns domain.ErrUserExists if the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
	// GetUserByEmail returns domain.ErrUserNotFound if nothing matches.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// SessionRepository stores auth sessions (in-memory, Redis).
type SessionRepository interface {
	SaveSession(ctx context.Context, session domain.AuthSession) error
	// GetSession returns domain.ErrSessionNotFound for unknown or expired tokens.
	GetSession(ctx context.Context, token string) (domain.AuthSession, error)
	DeleteSession(ctx context.Context, token string) error
}

// TodayResolver resolves the public view of the question for a calendar day,
// typically through a cache in front of QuestionRepository.LatestPublished.
type TodayResolver interface {
	Today(ctx context.Context, day time.Time) (domain.PublicQuestion, error)
	// Invalidate drops cached resolutions after a question write.
	Invalidate(ctx context.Context)
}

// SubmissionPublisher receives every newly graded submission.
type SubmissionPublisher interface {
	Publish(sub domain.RecentSubmission)
}
