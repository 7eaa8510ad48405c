package server

import (
	"net/http"
	"testing"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Camille Martin", "email": "camille@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decodeJSON[types.LoginResponse](t, w)
	require.NotNil(t, registered.User)
	assert.Equal(t, "camille@example.com", registered.User.Email)
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := s.jwtService.ValidateToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	w = do(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "camille@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loggedIn := decodeJSON[types.LoginResponse](t, w)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	w = do(t, s, http.MethodGet, "/resumes", loggedIn.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "camille@example.com")

	w := do(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Other", "email": "camille@example.com", "password": "password456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "camille@example.com")

	for _, body := range []map[string]string{
		{"email": "camille@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		w := do(t, s, http.MethodPost, "/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
	}
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/auth/register", "/auth/login"} {
		w := do(t, s, http.MethodPost, path, "", "invalid json")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), "Invalid request body", path)
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{"missing name", map[string]string{"email": "test@example.com", "password": "password123"}},
		{"invalid email", map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"}},
		{"missing email", map[string]string{"name": "Test User", "password": "password123"}},
		{"password too short", map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"}},
		{"missing password", map[string]string{"name": "Test User", "email": "test@example.com"}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/auth/register", "", tt.reqBody)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	w := do(t, s, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "not-my-password", "new_password": "new-password-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "current password is incorrect")

	w = do(t, s, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "password123", "new_password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "password123", "new_password": "new-password-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "camille@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "camille@example.com", "password": "new-password-1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
