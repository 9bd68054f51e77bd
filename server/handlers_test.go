package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HnnhKylSdsBrl/ClassCart/core/auth"
	"github.com/HnnhKylSdsBrl/ClassCart/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessionStore is an in-memory SessionStore for handler tests.
type memSessionStore struct {
	sessions map[string]string
	nextID   int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (s *memSessionStore) Create(ctx context.Context, username string) (string, error) {
	s.nextID++
	token := fmt.Sprintf("token-%d", s.nextID)
	s.sessions[token] = username
	return token, nil
}

func (s *memSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	return s.sessions[token], nil
}

func (s *memSessionStore) Destroy(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	sessions := newMemSessionStore()
	token, err := sessions.Create(context.Background(), "jdcruz")
	require.NoError(t, err)

	h := &APIHandler{sessions: sessions}
	var gotUsername string
	protected := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUsername, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeErrorBody(t, rec)
		assert.Equal(t, string(model.KindUnauthenticated), body["kind"])
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "bogus"})
		rec := httptest.NewRecorder()
		protected(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
		rec := httptest.NewRecorder()
		protected(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jdcruz", gotUsername)
	})
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		kind   model.ErrorKind
		status int
	}{
		{model.KindValidation, http.StatusBadRequest},
		{model.KindInvalidCredentials, http.StatusUnauthorized},
		{model.KindUnauthenticated, http.StatusUnauthorized},
		{model.KindForbidden, http.StatusForbidden},
		{model.KindNotFound, http.StatusNotFound},
		{model.KindDuplicateUsername, http.StatusConflict},
		{model.KindDuplicateEmail, http.StatusConflict},
		{model.KindDuplicateContact, http.StatusConflict},
		{model.KindInvalidOperation, http.StatusConflict},
		{model.KindServer, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, model.NewAppError(tt.kind, "boom"))
			assert.Equal(t, tt.status, rec.Code)
			body := decodeErrorBody(t, rec)
			assert.Equal(t, string(tt.kind), body["kind"])
		})
	}
}

func TestWriteErrorHidesServerDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, model.NewAppError(model.KindServer, "dsn user:pass@tcp leaked"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "server error", body["error"])
}

func TestGetUsernameFromContext(t *testing.T) {
	_, err := GetUsernameFromContext(context.Background())
	assert.Error(t, err)

	ctx := context.WithValue(context.Background(), usernameContextKey, "jdcruz")
	username, err := GetUsernameFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jdcruz", username)
}
