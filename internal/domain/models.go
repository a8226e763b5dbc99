package domain

import "time"

// Question is a trivia question as stored. Answer must never reach non-admin callers;
// use Public for those read paths.
type Question struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Hint        string    `json:"hint,omitempty"`
	PublishDate time.Time `json:"publishDate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PublicQuestion is a question without its canonical answer.
type PublicQuestion struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Hint        string    `json:"hint,omitempty"`
	PublishDate time.Time `json:"publishDate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Public strips the answer.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:          q.ID,
		Question:    q.Question,
		Hint:        q.Hint,
		PublishDate: q.PublishDate,
		Active:      q.Active,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// QuestionPage is a page of questions ordered by publish date, newest first.
type QuestionPage struct {
	Questions  []Question `json:"questions"`
	Pagination Pagination `json:"pagination"`
}

// Submission is a graded answer. Correct is fixed at creation.
type Submission struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	Name       string    `json:"name"`
	Answer     string    `json:"answer"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SubmitRequest is the raw grading input from a participant.
type SubmitRequest struct {
	QuestionID string
	Name       string
	Answer     string
}

// SubmissionReceipt is the part of a stored submission echoed back to its author.
type SubmissionReceipt struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// GradeResult is the outcome of grading. It never contains the canonical answer.
type GradeResult struct {
	Correct    bool              `json:"correct"`
	Submission SubmissionReceipt `json:"submission"`
}

// RecentSubmission is the public view of a submission shown on the front page and live feed.
type RecentSubmission struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	Name       string    `json:"name"`
	Correct    bool      `json:"correct"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recent converts a stored submission into its public form.
func (s Submission) Recent() RecentSubmission {
	return RecentSubmission{
		ID:         s.ID,
		QuestionID: s.QuestionID,
		Name:       s.Name,
		Correct:    s.Correct,
		CreatedAt:  s.CreatedAt,
	}
}

// User is an account able to sign in. Only admins may manage questions.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// CurrentUser is the resolved identity of an authenticated caller.
type CurrentUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// AuthSession binds an opaque token to a user until it expires.
type AuthSession struct {
	Token     string      `json:"token"`
	User      CurrentUser `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}
