package handlers

import (
	"errors"
	"net/http"

	"quicksent/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User    any    `json:"user"`
	Session any    `json:"session"`
	Token   string `json:"token"`
}

// LoginHandler handles POST /api/auth/login.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	user, token, session, err := h.Auth.Login(r.Context(), req.Email, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, auth.ErrAccountDisabled):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Session: session, Token: token})
}

// LogoutHandler handles POST /api/auth/logout. Revocation failures never
// surface: logout always succeeds.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.Auth.Logout(r.Context(), auth.BearerToken(r))

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// RegisterHandler handles POST /api/auth/register: creates the account
// and logs it straight in.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	user, token, session, err := h.Auth.Register(r.Context(), req, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Session: session, Token: token})
}

// MeHandler returns the authenticated user.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
