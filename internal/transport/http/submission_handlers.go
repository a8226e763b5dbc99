package http

import (
	"net/http"

	"daily-trivia-service/internal/domain"
)

type submitRequest struct {
	QuestionID string `json:"questionId"`
	Name       string `json:"name"`
	Answer     string `json:"answer"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.grading.SubmitAnswer(r.Context(), domain.SubmitRequest{
		QuestionID: req.QuestionID,
		Name:       req.Name,
		Answer:     req.Answer,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) recentSubmissions(w http.ResponseWriter, r *http.Request) {
	recent, err := h.grading.Recent(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}
