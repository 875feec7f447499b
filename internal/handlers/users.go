package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/slotbook/slotbook/internal/storage"
)

type UserHandler struct {
	users  *storage.UserRepository
	logger *slog.Logger
}

func NewUserHandler(users *storage.UserRepository, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type updateUsernameRequest struct {
	Username string `json:"username"`
}

// UpdateUsername changes the caller's public handle, which appears in booking
// page URLs.
func (h *UserHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if !validUsername(req.Username) {
		http.Error(w, "username must be 3-20 letters, numbers, or underscores", http.StatusBadRequest)
		return
	}

	if err := h.users.UpdateUsername(r.Context(), principal.UserID, req.Username); err != nil {
		if storage.IsUniqueViolation(err) {
			http.Error(w, "username already taken", http.StatusConflict)
			return
		}
		if storage.IsNotFound(err) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update username", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username})
}

type connectGoogleRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Expiry       string `json:"expiry"`
}

// ConnectGoogle stores the caller's Google OAuth token, required before any
// of their events can be booked (the booking flow creates a calendar event on
// their behalf).
func (h *UserHandler) ConnectGoogle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req connectGoogleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		http.Error(w, "refresh_token required", http.StatusBadRequest)
		return
	}

	token := map[string]any{
		"access_token":  req.AccessToken,
		"refresh_token": req.RefreshToken,
		"token_type":    req.TokenType,
	}
	if req.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, req.Expiry)
		if err != nil {
			http.Error(w, "invalid expiry", http.StatusBadRequest)
			return
		}
		token["expiry"] = expiry.UTC().Format(time.RFC3339)
	}
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		http.Error(w, "failed to encode token", http.StatusInternalServerError)
		return
	}

	if err := h.users.SaveGoogleToken(r.Context(), principal.UserID, tokenJSON); err != nil {
		http.Error(w, "failed to store token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
