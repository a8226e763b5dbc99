package domain

import "errors"

var (
	// ErrInvalidInput is returned when a request is missing required fields or is malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuestionNotFound indicates no question exists for the given id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoQuestionToday indicates no active question is published on or before today.
	ErrNoQuestionToday = errors.New("no question available today")
	// ErrAlreadySubmitted is returned when a name already answered a question.
	ErrAlreadySubmitted = errors.New("you have already submitted an answer for this question")
	// ErrUnauthorized is returned when the caller is not an authenticated admin.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates the user lookup found nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates a user with the same email already exists.
	ErrUserExists = errors.New("user already exists")
	// ErrSessionNotFound indicates the session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError carries a client-facing message for rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
