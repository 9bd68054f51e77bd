package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HnnhKylSdsBrl/ClassCart/config"
	"github.com/HnnhKylSdsBrl/ClassCart/core/account"
	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/core/market"
	"github.com/HnnhKylSdsBrl/ClassCart/logger"
	"github.com/HnnhKylSdsBrl/ClassCart/model"
)

// APIHandler handles all API requests.
type APIHandler struct {
	accounts *account.Service
	market   *market.Service
	sessions auth.SessionStore
	cfg      *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	accounts *account.Service,
	market *market.Service,
	sessions auth.SessionStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		accounts: accounts,
		market:   market,
		sessions: sessions,
		cfg:      cfg,
	}
}

var statusByKind = map[model.ErrorKind]int{
	model.KindValidation:         http.StatusBadRequest,
	model.KindInvalidCredentials: http.StatusUnauthorized,
	model.KindUnauthenticated:    http.StatusUnauthorized,
	model.KindForbidden:          http.StatusForbidden,
	model.KindNotFound:           http.StatusNotFound,
	model.KindDuplicateUsername:  http.StatusConflict,
	model.KindDuplicateEmail:     http.StatusConflict,
	model.KindDuplicateContact:   http.StatusConflict,
	model.KindInvalidOperation:   http.StatusConflict,
	model.KindServer:             http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("[HTTP] failed to encode response", logger.ErrorField(err))
	}
}

// writeError writes an error response carrying the stable kind and message.
func writeError(w http.ResponseWriter, err error) {
	kind := model.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := "server error"
	if kind != model.KindServer {
		message = err.Error()
	}
	writeJSON(w, status, map[string]string{
		"error": message,
		"kind":  string(kind),
	})
}

// AuthMiddleware resolves the session cookie to a username and stores it in
// the request context. Requests without a valid session are rejected.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
			return
		}

		username, err := h.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			logger.Error("[Auth] session resolve failed", logger.ErrorField(err))
			writeError(w, model.ServerError())
			return
		}
		if username == "" {
			writeError(w, model.NewAppError(model.KindUnauthenticated, "not authenticated"))
			return
		}

		ctx := context.WithValue(r.Context(), usernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

type contextKey string

const usernameContextKey contextKey = "username"

// GetUsernameFromContext extracts the authenticated username from the
// request context.
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameContextKey).(string)
	if !ok || username == "" {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}
