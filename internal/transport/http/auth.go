package http

import (
	"errors"
	"net/http"
	"strings"

	"daily-trivia-service/internal/domain"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// adminHandler receives the resolved admin explicitly instead of looking it up.
type adminHandler func(w http.ResponseWriter, r *http.Request, admin domain.CurrentUser)

// adminOnly answers 401 unless the request carries a live admin session.
func (h *Handler) adminOnly(next adminHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.auth.RequireAdmin(r.Context(), sessionToken(r, h.opts.CookieName))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		next(w, r, admin)
	}
}

// adminPrefixGate redirects browser navigation under /admin to the home page
// unless the caller is an admin. API requests pass through to the per-route check.
func (h *Handler) adminPrefixGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAdminPath(r.URL.Path) && isBrowserNavigation(r) {
			if _, err := h.auth.RequireAdmin(r.Context(), sessionToken(r, h.opts.CookieName)); err != nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Info("login rejected", zap.String("email", req.Email))
		}
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), sessionToken(r, h.opts.CookieName)); err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, errorPayload{Message: "Logged out"})
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), sessionToken(r, h.opts.CookieName))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// sessionToken reads a bearer token, falling back to the session cookie when
// the Authorization header is absent or carries another scheme.
func sessionToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

func isBrowserNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
