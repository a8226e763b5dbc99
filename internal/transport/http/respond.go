package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"daily-trivia-service/internal/domain"
	"go.uber.org/zap"
)

const (
	internalMessage = "Internal server error"
	maxBodyBytes    = 1 << 20
)

type errorPayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("Invalid JSON body")
	}
	return nil
}

// writeError maps domain errors to status codes. Unexpected errors are logged
// and reported with a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: validation.Message})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "Invalid request"})
	case errors.Is(err, domain.ErrAlreadySubmitted):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "You have already submitted an answer for this question"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorPayload{Message: "Unauthorized"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorPayload{Message: "Invalid email or password"})
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "Question not found"})
	case errors.Is(err, domain.ErrNoQuestionToday):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "No question available today"})
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: internalMessage})
	}
}
