package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/domain"
	"github.com/rossel-mx/rossel-ecommerce-sub000/internal/session"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/httputil"
	"github.com/rossel-mx/rossel-ecommerce-sub000/pkg/validator"
)

// AuthHandler handles login, logout, and session resumption.
type AuthHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates an auth HTTP handler.
func NewAuthHandler(sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResumeRequest is the JSON body for POST /api/v1/auth/resume.
type ResumeRequest struct {
	Token string `json:"token" validate:"required"`
}

// SessionResponse is the session payload returned on login and resume.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

func sessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		SessionID: s.ID,
		Token:     s.Token,
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessionResponse(sess)})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged_out"}})
}

// Resume handles POST /api/v1/auth/resume
func (h *AuthHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess, err := h.sessions.Resume(r.Context(), req.Token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sessionResponse(sess)})
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, err := h.sessions.Identity(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"user_id": identity.UserID,
		"email":   identity.Email,
		"role":    identity.Role,
	}})
}
