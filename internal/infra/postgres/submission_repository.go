package postgres

import (
	"context"
	"fmt"

	"daily-trivia-service/internal/domain"
)

// SubmissionRepository stores graded submissions. The unique constraint on
// (question_id, name) decides the winner when identical submissions race.
type SubmissionRepository struct {
	db DBTX
}

func NewSubmissionRepository(db DBTX) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) CreateSubmission(ctx context.Context, s domain.Submission) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO submissions (id, question_id, name, answer, correct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.QuestionID, s.Name, s.Answer, s.Correct, s.CreatedAt,
	)
	switch {
	case err == nil:
		return nil
	case hasCode(err, uniqueViolation):
		return domain.ErrAlreadySubmitted
	case hasCode(err, foreignKeyViolation):
		return domain.ErrQuestionNotFound
	default:
		return fmt.Errorf("insert submission: %w", err)
	}
}

func (r *SubmissionRepository) SubmissionExists(ctx context.Context, questionID, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE question_id = $1 AND name = $2)`,
		questionID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("submission exists: %w", err)
	}
	return exists, nil
}

func (r *SubmissionRepository) RecentSubmissions(ctx context.Context, questionID string, limit int) ([]domain.Submission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, question_id, name, answer, correct, created_at
		FROM submissions
		WHERE question_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, questionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.Submission, 0, limit)
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.QuestionID, &s.Name, &s.Answer, &s.Correct, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
