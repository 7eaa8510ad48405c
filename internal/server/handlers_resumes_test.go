package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() map[string]any {
	return map[string]any{
		"title": "Backend Developer",
		"personalInfo": map[string]any{
			"fullName": "Camille Martin",
			"email":    "camille@example.com",
			"linkedin": "https://linkedin.com/in/camille",
		},
		"experience": []map[string]any{{
			"title":        "Développeuse Go",
			"company":      "Acme",
			"contractType": "CDI",
			"startDate":    "2020-01",
			"inProgress":   true,
			"description":  "APIs REST\nMigrations SQL",
		}},
		"education": []map[string]any{},
		"skills":    []string{"Go", "SQL"},
	}
}

func createResume(t *testing.T, s *Server, token string, body any) *types.ResumeRecord {
	t.Helper()
	w := do(t, s, http.MethodPost, "/resumes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rec := decodeJSON[types.ResumeRecord](t, w)
	require.NotEmpty(t, rec.ID)
	assert.Equal(t, "/resumes/"+rec.ID, w.Header().Get("Location"))
	return &rec
}

func TestResumeLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	created := createResume(t, s, token, sampleResume())
	assert.Equal(t, "Backend Developer", created.Title)
	assert.NotEmpty(t, created.UserID)
	assert.False(t, created.CreatedAt.IsZero())

	w := do(t, s, http.MethodGet, "/resumes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeJSON[ResumeListResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Resumes[0].ID)

	w = do(t, s, http.MethodPatch, "/resumes/"+created.ID, token, map[string]any{"title": "Lead Developer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decodeJSON[types.ResumeRecord](t, w)
	assert.Equal(t, created.ID, patched.ID)
	assert.Equal(t, "Lead Developer", patched.Title)

	w = do(t, s, http.MethodGet, "/resumes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeJSON[types.ResumeRecord](t, w)
	assert.Equal(t, "Lead Developer", got.Title)
	assert.Equal(t, types.Skills{"Go", "SQL"}, got.Skills, "fields absent from the patch are kept")
	require.Len(t, got.Experience, 1)
	assert.True(t, got.Experience[0].InProgress)

	w = do(t, s, http.MethodPost, "/resumes/"+created.ID+"/duplicate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dup := decodeJSON[types.ResumeRecord](t, w)
	assert.NotEqual(t, created.ID, dup.ID)
	assert.Equal(t, "Lead Developer (copie)", dup.Title)
	assert.Equal(t, got.Experience, dup.Experience)

	w = do(t, s, http.MethodDelete, "/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "resume not found")

	w = do(t, s, http.MethodDelete, "/resumes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code, "delete is idempotent")

	w = do(t, s, http.MethodGet, "/resumes", token, nil)
	list = decodeJSON[ResumeListResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, dup.ID, list.Resumes[0].ID)
}

func TestCreateResume_EmptyBody(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	rec := createResume(t, s, token, nil)
	assert.Empty(t, rec.Title)
	assert.Empty(t, rec.Experience)
}

func TestCreateResume_RejectsInvalidBodies(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{"},
		{"unknown contract type", map[string]any{"experience": []map[string]any{{"contractType": "Permanent"}}}},
		{"bad date", map[string]any{"education": []map[string]any{{"startDate": "June 2020"}}}},
		{"title not a string", map[string]any{"title": 42}},
		{"skills not strings", map[string]any{"skills": []int{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/resumes", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, decodeJSON[map[string]string](t, w)["error"], "validation error")
		})
	}

	w := do(t, s, http.MethodGet, "/resumes", token, nil)
	assert.Equal(t, 0, decodeJSON[ResumeListResponse](t, w).Total)
}

func TestCreateResume_AcceptsLegacySkillsString(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	rec := createResume(t, s, token, map[string]any{"skills": "Go, SQL,  , Docker"})
	assert.Equal(t, types.Skills{"Go", "SQL", "Docker"}, rec.Skills)
}

func TestResumesAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	owner := register(t, s, "owner@example.com")
	other := register(t, s, "other@example.com")

	rec := createResume(t, s, owner, sampleResume())

	w := do(t, s, http.MethodGet, "/resumes", other, nil)
	assert.Equal(t, 0, decodeJSON[ResumeListResponse](t, w).Total)

	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/resumes/" + rec.ID},
		{http.MethodPatch, "/resumes/" + rec.ID},
		{http.MethodDelete, "/resumes/" + rec.ID},
		{http.MethodPost, "/resumes/" + rec.ID + "/duplicate"},
		{http.MethodGet, "/resumes/" + rec.ID + "/export?format=html"},
	} {
		w := do(t, s, rt.method, rt.path, other, map[string]any{"title": "stolen"})
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", rt.method, rt.path)
	}

	w = do(t, s, http.MethodGet, "/resumes/"+rec.ID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Backend Developer", decodeJSON[types.ResumeRecord](t, w).Title)
}

func TestUpdateResume_Missing(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")

	w := do(t, s, http.MethodPatch, "/resumes/missing", token, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateResume_InvalidPatch(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")
	rec := createResume(t, s, token, sampleResume())

	w := do(t, s, http.MethodPatch, "/resumes/"+rec.ID, token, map[string]any{"experience": "none"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateResume_UntitledUsesFallback(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")
	rec := createResume(t, s, token, map[string]any{})

	w := do(t, s, http.MethodPost, "/resumes/"+rec.ID+"/duplicate", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "CV (copie)", decodeJSON[types.ResumeRecord](t, w).Title)
}

func TestDeleteResume_InFlight(t *testing.T) {
	s := newTestServer(t)
	token := register(t, s, "camille@example.com")
	rec := createResume(t, s, token, sampleResume())

	release, err := s.guard.Acquire(context.Background(), "resume:"+rec.UserID+":"+rec.ID)
	require.NoError(t, err)

	w := do(t, s, http.MethodDelete, "/resumes/"+rec.ID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "delete already in progress")

	w = do(t, s, http.MethodGet, "/resumes/"+rec.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code, "resume survives the rejected delete")

	release()
	w = do(t, s, http.MethodDelete, "/resumes/"+rec.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteResume_OtherUserDoesNotBlockOwner(t *testing.T) {
	s := newTestServer(t)
	owner := register(t, s, "camille@example.com")
	intruder := register(t, s, "mallory@example.com")
	rec := createResume(t, s, owner, sampleResume())

	claims, err := s.jwtService.ValidateToken(intruder)
	require.NoError(t, err)
	release, err := s.guard.Acquire(context.Background(), deleteClaim(types.NewIdentity(claims.UserID), rec.ID))
	require.NoError(t, err)
	defer release()

	w := do(t, s, http.MethodDelete, "/resumes/"+rec.ID, intruder, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "the intruder's own claim is still held")

	w = do(t, s, http.MethodDelete, "/resumes/"+rec.ID, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/resumes/"+rec.ID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
