package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ajali/config"
	"ajali/core/auth"
	"ajali/core/rbac"
	"ajali/core/store"
	"ajali/core/utils"
)

const minPasswordLen = 8

type AuthHandler struct {
	cfg          *config.AppConfig
	users        store.UsersStore
	tokens       store.TokenStore
	tokenManager *auth.TokenManager
	audits       store.AuditStore
	logger       *utils.Logger
}

func NewAuthHandler(cfg *config.AppConfig, users store.UsersStore, tokens store.TokenStore, tokenManager *auth.TokenManager, audits store.AuditStore, logger *utils.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users, tokens: tokens, tokenManager: tokenManager, audits: audits, logger: logger}
}

type registerPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	User        *store.User `json:"user"`
}

// Register creates a citizen account. There is no self-service path to the
// admin role; admins are provisioned at bootstrap.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(payload.Password) < minPasswordLen {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	hash, err := auth.HashPassword(payload.Password, h.cfg.Pepper)
	if err != nil {
		h.logger.Errorf("AUTH hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	user := &store.User{
		Email:        email,
		FullName:     strings.TrimSpace(payload.FullName),
		PasswordHash: hash,
		Role:         rbac.RoleCitizen,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Errorf("AUTH register: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	token, _, err := h.tokenManager.Issue(user)
	if err != nil {
		h.logger.Errorf("AUTH issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	_ = h.audits.Log(r.Context(), user.Email, "auth.register", "")
	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.users.FindByEmail(r.Context(), payload.Email)
	if err != nil {
		h.logger.Errorf("AUTH lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password, h.cfg.Pepper); err != nil {
		h.logger.Printf("AUTH fail (bad password) email=%s", user.Email)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, _, err := h.tokenManager.Issue(user)
	if err != nil {
		h.logger.Errorf("AUTH issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	_ = h.audits.Log(r.Context(), user.Email, "auth.login", "")
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, User: user})
}

// Logout revokes the presenting token until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil || claims.ExpiresAt == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.tokens.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Errorf("AUTH revoke: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	_ = h.audits.Log(r.Context(), claims.Email, "auth.logout", "")
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.users.Get(r.Context(), actor.ID)
	if err != nil {
		h.logger.Errorf("AUTH me: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}
