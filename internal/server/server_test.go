package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscope/internal/auth"
	"vidscope/internal/models"
	"vidscope/internal/store"
	"vidscope/shared/logger"
)

type fakeUsers struct {
	user *models.User
}

func (f *fakeUsers) UserByEmail(email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, store.ErrNotFound
}

func newTestRouter(t *testing.T, users Users, tokens *auth.Tokens) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil, users, tokens, logger.NewNop())
	return NewRouter(h, tokens, "test")
}

func seededUsers(t *testing.T, role string) *fakeUsers {
	t.Helper()
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	return &fakeUsers{user: &models.User{
		ID: "u1", Email: "alice@example.com", Name: "Alice", Role: role, PasswordHash: hash,
	}}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &fakeUsers{}, auth.NewTokens("s", time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	tokens := auth.NewTokens("s", time.Hour)
	router := newTestRouter(t, seededUsers(t, models.RoleUser), tokens)

	body, _ := json.Marshal(gin.H{"email": "alice@example.com", "password": "hunter2"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t, seededUsers(t, models.RoleUser), auth.NewTokens("s", time.Hour))

	tests := []struct {
		name string
		body gin.H
	}{
		{"Wrong password", gin.H{"email": "alice@example.com", "password": "wrong"}},
		{"Unknown user", gin.H{"email": "bob@example.com", "password": "hunter2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAPIRequiresToken(t *testing.T) {
	router := newTestRouter(t, &fakeUsers{}, auth.NewTokens("s", time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminListingForbiddenForUsers(t *testing.T) {
	tokens := auth.NewTokens("s", time.Hour)
	router := newTestRouter(t, &fakeUsers{}, tokens)

	token, err := tokens.Issue("u1", models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/videos/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
