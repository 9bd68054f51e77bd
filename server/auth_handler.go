package server

import (
	"encoding/json"
	"net/http"

	"github.com/HnnhKylSdsBrl/ClassCart/core/account"
	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/logger"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler handles user registration requests.
func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req account.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	profile, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":      true,
		"message": "Registered",
		"user":    profile,
	})
}

// LoginHandler handles user login requests and establishes the session
// cookie.
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("[Login] failed to parse request body", logger.ErrorField(err))
		writeError(w, model.ValidationError("Invalid request body"))
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.Username)
	if err != nil {
		logger.Error("[Login] failed to create session", logger.ErrorField(err))
		writeError(w, model.ServerError())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.SessionTTL.Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Logged in",
		"user":    map[string]string{"username": user.Username},
	})
}

// LogoutHandler destroys the session and clears the cookie.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			logger.Error("[Logout] failed to destroy session", logger.ErrorField(err))
			writeError(w, model.ServerError())
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Logged out",
	})
}
