package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"daily-trivia-service/internal/domain"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// serveLive upgrades to a websocket, sends the recent submissions for today's
// question, then streams each new submission to it until the client goes away.
func (h *Handler) serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Subscribe before reading the snapshot so nothing graded in between is lost.
	updates, cancel := h.feed.Subscribe()
	defer cancel()

	recent, err := h.grading.Recent(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNoQuestionToday) {
		h.log.Error("ws snapshot failed", zap.Error(err))
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: internalMessage}})
		return
	}
	if recent == nil {
		recent = []domain.RecentSubmission{}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(outboundMessage[[]domain.RecentSubmission]{Type: "recent", Payload: recent}); err != nil {
		return
	}

	// The feed is write-only; reading just detects the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case sub, ok := <-updates:
			if !ok {
				return
			}
			if !h.isTodaysQuestion(r.Context(), sub.QuestionID) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(outboundMessage[domain.RecentSubmission]{Type: "submission", Payload: sub}); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}

func (h *Handler) isTodaysQuestion(ctx context.Context, questionID string) bool {
	q, err := h.questions.Today(ctx)
	return err == nil && q.ID == questionID
}
