package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-trivia-service/internal/domain"
	"github.com/jackc/pgx/v4"
)

const questionColumns = `id, question, answer, hint, publish_date, active, created_at, updated_at`

// QuestionRepository stores questions in Postgres. Submissions reference
// questions with ON DELETE CASCADE.
type QuestionRepository struct {
	db DBTX
}

func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, q domain.Question) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO questions (`+questionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.Question, q.Answer, q.Hint, q.PublishDate, q.Active, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id string) (domain.Question, error) {
	row := r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q domain.Question) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE questions
		SET question = $2, answer = $3, hint = $4, publish_date = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		q.ID, q.Question, q.Answer, q.Hint, q.PublishDate, q.Active, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (r *QuestionRepository) ListQuestions(ctx context.Context, offset, limit int) ([]domain.Question, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM questions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count questions: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+questionColumns+` FROM questions
		ORDER BY publish_date DESC, created_at DESC, id DESC
		OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0, limit)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	return questions, total, nil
}

func (r *QuestionRepository) LatestPublished(ctx context.Context, cutoff time.Time) (domain.Question, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+questionColumns+` FROM questions
		WHERE active AND publish_date <= $1
		ORDER BY publish_date DESC, created_at DESC, id DESC
		LIMIT 1`, cutoff)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrNoQuestionToday
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("latest published: %w", err)
	}
	return q, nil
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var q domain.Question
	err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.Hint, &q.PublishDate, &q.Active, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}
