package http

import (
	"net/http"
	"strconv"

	"daily-trivia-service/internal/app"
	"daily-trivia-service/internal/domain"
)

type createQuestionRequest struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Hint        string `json:"hint"`
	PublishDate string `json:"publishDate"`
	Active      *bool  `json:"active"`
}

type updateQuestionRequest struct {
	Question    *string `json:"question"`
	Answer      *string `json:"answer"`
	Hint        *string `json:"hint"`
	PublishDate *string `json:"publishDate"`
	Active      *bool   `json:"active"`
}

func (h *Handler) getTodaysQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.questions.Today(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request, _ domain.CurrentUser) {
	var req createQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.questions.Create(r.Context(), app.CreateQuestionRequest{
		Question:    req.Question,
		Answer:      req.Answer,
		Hint:        req.Hint,
		PublishDate: req.PublishDate,
		Active:      req.Active,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request, _ domain.CurrentUser) {
	q, err := h.questions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request, _ domain.CurrentUser) {
	var req updateQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.questions.Update(r.Context(), r.PathValue("id"), app.UpdateQuestionRequest{
		Question:    req.Question,
		Answer:      req.Answer,
		Hint:        req.Hint,
		PublishDate: req.PublishDate,
		Active:      req.Active,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request, _ domain.CurrentUser) {
	if err := h.questions.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, errorPayload{Message: "Question deleted successfully"})
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request, _ domain.CurrentUser) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.questions.List(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
