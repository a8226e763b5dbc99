package http

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"daily-trivia-service/internal/app"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Options tunes cookie handling for admin sessions.
type Options struct {
	CookieName   string
	SecureCookie bool
}

// Handler serves the trivia JSON API and the live submissions feed.
type Handler struct {
	questions *app.QuestionService
	grading   *app.GradingService
	auth      *app.AuthService
	feed      *app.Feed
	log       *zap.Logger
	opts      Options
	upgrader  websocket.Upgrader
}

func NewHandler(questions *app.QuestionService, grading *app.GradingService, auth *app.AuthService, feed *app.Feed, logger *zap.Logger, opts Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CookieName == "" {
		opts.CookieName = "trivia_session"
	}
	return &Handler{
		questions: questions,
		grading:   grading,
		auth:      auth,
		feed:      feed,
		log:       logger,
		opts:      opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes returns the full handler chain: access log and panic recovery, the
// admin path-prefix gate, then the route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /question", h.getTodaysQuestion)
	mux.HandleFunc("POST /question", h.adminOnly(h.createQuestion))
	mux.HandleFunc("GET /question/{id}", h.adminOnly(h.getQuestion))
	mux.HandleFunc("PUT /question/{id}", h.adminOnly(h.updateQuestion))
	mux.HandleFunc("DELETE /question/{id}", h.adminOnly(h.deleteQuestion))
	mux.HandleFunc("GET /admin/questions", h.adminOnly(h.listQuestions))

	mux.HandleFunc("POST /submission", h.submitAnswer)
	mux.HandleFunc("GET /submission", h.recentSubmissions)
	mux.HandleFunc("GET /submission/live", h.serveLive)

	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /auth/logout", h.logout)
	mux.HandleFunc("GET /auth/session", h.currentSession)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "Not found"})
	})

	return h.logRequests(h.adminPrefixGate(mux))
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				h.log.Error("panic serving request", zap.Any("panic", p), zap.String("method", r.Method), zap.String("path", r.URL.Path))
				if !rec.wrote {
					writeJSON(rec, http.StatusInternalServerError, errorPayload{Message: internalMessage})
				}
			}
			h.log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		}()
		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(b)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	r.wrote = true
	return hj.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
