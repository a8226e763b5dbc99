package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-trivia-service/internal/app"
	"daily-trivia-service/internal/domain"
)

func TestTodaysQuestionSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.mustCreate(t, "older", "A", "2024-01-01", true)
	current := f.mustCreate(t, "current", "A", "2024-01-10", true)
	f.mustCreate(t, "future", "A", "2024-01-11", true)
	f.mustCreate(t, "hidden", "A", "2024-01-09", false)

	got, err := f.questions.TodaysQuestion(ctx, testNow)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if got.ID != current.ID {
		t.Fatalf("expected %s, got %s (%s)", current.ID, got.ID, got.Question)
	}

	again, _ := f.questions.TodaysQuestion(ctx, testNow.Add(5*time.Hour))
	if again != got {
		t.Fatalf("expected identical content within the day, got %+v vs %+v", again, got)
	}

	// The day before, only the older question qualifies.
	prev, err := f.questions.TodaysQuestion(ctx, time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("previous day: %v", err)
	}
	if prev.Question != "older" {
		t.Fatalf("inactive or future questions must be skipped, got %s", prev.Question)
	}
}

func TestTodaysQuestionNeverFutureOrInactive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.mustCreate(t, "future", "A", "2024-01-11", true)
	f.mustCreate(t, "inactive", "A", "2024-01-05", false)

	if _, err := f.questions.TodaysQuestion(ctx, testNow); !errors.Is(err, domain.ErrNoQuestionToday) {
		t.Fatalf("expected no question, got %v", err)
	}
}

func TestTodaysQuestionTieBreaksOnCreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created := testNow
	f.questions.WithClock(func() time.Time { return created })

	f.mustCreate(t, "first", "A", "2024-01-05", true)
	created = created.Add(time.Minute)
	second := f.mustCreate(t, "second", "A", "2024-01-05", true)

	got, err := f.questions.TodaysQuestion(ctx, testNow)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("expected the later created question, got %s", got.Question)
	}
}

func TestTodaysQuestionSeesWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	q := f.mustCreate(t, "Q?", "A", "2024-01-01", true)

	if _, err := f.questions.Today(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	inactive := false
	if _, err := f.questions.Update(ctx, q.ID, app.UpdateQuestionRequest{Active: &inactive}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := f.questions.Today(ctx); !errors.Is(err, domain.ErrNoQuestionToday) {
		t.Fatalf("expected cache invalidated by update, got %v", err)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, req := range []app.CreateQuestionRequest{
		{Answer: "A", PublishDate: "2024-01-01"},
		{Question: "Q?", PublishDate: "2024-01-01"},
		{Question: "Q?", Answer: "A"},
		{Question: "Q?", Answer: "A", PublishDate: "yesterday"},
	} {
		if _, err := f.questions.Create(ctx, req); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", req, err)
		}
	}

	q, err := f.questions.Create(ctx, app.CreateQuestionRequest{Question: "Q?", Answer: "A", Hint: "h", PublishDate: "2024-01-03T18:45:00Z"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !q.Active {
		t.Fatalf("expected active default true")
	}
	if want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC); !q.PublishDate.Equal(want) {
		t.Fatalf("expected publish date normalized to %v, got %v", want, q.PublishDate)
	}
}

func TestUpdateQuestionPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	q := f.mustCreate(t, "Q?", "A", "2024-01-01", true)

	hint := "think"
	updated, err := f.questions.Update(ctx, q.ID, app.UpdateQuestionRequest{Hint: &hint})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Hint != "think" || updated.Question != "Q?" || updated.Answer != "A" || !updated.Active {
		t.Fatalf("unexpected update %+v", updated)
	}

	empty := " "
	if _, err := f.questions.Update(ctx, q.ID, app.UpdateQuestionRequest{Answer: &empty}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank answer, got %v", err)
	}
	if _, err := f.questions.Update(ctx, "missing", app.UpdateQuestionRequest{Hint: &hint}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteQuestionCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	q := f.mustCreate(t, "Q?", "A", "2024-01-01", true)
	if _, err := f.grading.SubmitAnswer(ctx, domain.SubmitRequest{QuestionID: q.ID, Name: "Alice", Answer: "A"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.questions.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if exists, _ := f.store.SubmissionExists(ctx, q.ID, "Alice"); exists {
		t.Fatalf("expected submissions deleted with the question")
	}
	if err := f.questions.Delete(ctx, q.ID); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.questions.Today(ctx); !errors.Is(err, domain.ErrNoQuestionToday) {
		t.Fatalf("expected deleted question gone from today, got %v", err)
	}
}

func TestListQuestionsDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	for i := 1; i <= 12; i++ {
		f.mustCreate(t, "Q?", "A", time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format(time.DateOnly), true)
	}

	page, err := f.questions.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pagination != (domain.Pagination{Total: 12, Page: 1, Limit: 10, Pages: 2}) {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}
	if len(page.Questions) != 10 || page.Questions[0].PublishDate.Day() != 12 {
		t.Fatalf("expected newest first, got %d questions starting %v", len(page.Questions), page.Questions[0].PublishDate)
	}

	page, _ = f.questions.List(ctx, 5, 1000)
	if page.Pagination.Limit != 100 || len(page.Questions) != 0 {
		t.Fatalf("expected capped limit and empty page, got %+v", page.Pagination)
	}
}

func TestParsePublishDate(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got, err := app.ParsePublishDate("2024-06-01", paris)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Location() != paris || got.Hour() != 0 || got.Day() != 1 {
		t.Fatalf("expected midnight in Paris, got %v", got)
	}
	if _, err := app.ParsePublishDate("06/01/2024", paris); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
