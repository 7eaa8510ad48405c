package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/docstore"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: 24,
		Issuer:          config.DefaultJWTIssuer,
	}
}

func newTestServerWith(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.JWT == nil {
		deps.JWT = testJWTConfig()
	}
	if deps.Password == nil {
		deps.Password = &config.PasswordConfig{BcryptCost: config.MinBcryptCost}
	}
	if deps.RateLimit == nil {
		deps.RateLimit = &ratelimit.Config{Enabled: false}
	}
	s, err := NewWithDeps(Config{}, deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func newTestServer(t *testing.T) *Server {
	return newTestServerWith(t, Deps{})
}

// do sends a request through the full middleware chain.
func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token.
func register(t *testing.T, s *Server, email string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Camille Martin",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNewWithDeps_RequiresJWT(t *testing.T) {
	_, err := NewWithDeps(Config{}, Deps{})
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodOptions, "/resumes/abc", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "Content-Disposition", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/resumes"},
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/abc"},
		{http.MethodPatch, "/resumes/abc"},
		{http.MethodDelete, "/resumes/abc"},
		{http.MethodPost, "/resumes/abc/duplicate"},
		{http.MethodGet, "/resumes/abc/export"},
		{http.MethodPost, "/render"},
		{http.MethodPut, "/auth/password"},
	}
	for _, rt := range routes {
		w := do(t, s, rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}

	w := do(t, s, http.MethodGet, "/resumes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServerWith(t, Deps{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Minute,
	}})

	for i := 0; i < 2; i++ {
		w := do(t, s, http.MethodGet, "/resumes", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := do(t, s, http.MethodGet, "/resumes", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	w = do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, "health is never limited")
}

// failingBackend fails every call.
type failingBackend struct{}

var errBackendDown = errors.New("backend down")

func (failingBackend) Query(context.Context, string, string, string) ([]docstore.Snapshot, error) {
	return nil, errBackendDown
}

func (failingBackend) Get(context.Context, string, string) (*docstore.Snapshot, error) {
	return nil, errBackendDown
}

func (failingBackend) Add(context.Context, string, docstore.Document) (string, error) {
	return "", errBackendDown
}

func (failingBackend) Update(context.Context, string, string, docstore.Document) error {
	return errBackendDown
}

func (failingBackend) Delete(context.Context, string, string) error {
	return errBackendDown
}

func TestStoreFailureIsBadGateway(t *testing.T) {
	s := newTestServerWith(t, Deps{Backend: failingBackend{}})
	token := register(t, s, "camille@example.com")

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/resumes"},
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/abc"},
		{http.MethodDelete, "/resumes/abc"},
	} {
		w := do(t, s, rt.method, rt.path, token, nil)
		assert.Equal(t, http.StatusBadGateway, w.Code, "%s %s", rt.method, rt.path)
		assert.True(t, strings.Contains(w.Body.String(), "backend down"), w.Body.String())
	}
}
