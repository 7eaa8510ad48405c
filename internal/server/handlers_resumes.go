package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/cv-builder/internal/inflight"
	"github.com/jonathan/cv-builder/internal/resumes"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/types"
)

// maxBodyBytes bounds résumé request bodies.
const maxBodyBytes = 1 << 20

// ResumeListResponse is the body of GET /resumes.
type ResumeListResponse struct {
	Resumes []*types.ResumeRecord `json:"resumes"`
	Total   int                   `json:"total"`
}

// readResumeBody reads the body and checks it against the résumé schema.
// An empty body reads as "{}".
func readResumeBody(r *http.Request, w http.ResponseWriter) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := schemas.Validate(schemas.Resume, body); err != nil {
		return nil, err
	}
	return body, nil
}

// ownedResume loads id and hides résumés of other users behind a 404.
func (s *Server) ownedResume(ctx context.Context, identity types.Identity, id string) (*types.ResumeRecord, error) {
	rec, err := s.resumes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != identity.Key() {
		return nil, &resumes.NotFoundError{ID: id}
	}
	return rec, nil
}

// handleListResumes returns the caller's résumés
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	list, err := s.resumes.ListByUser(r.Context(), middleware.IdentityFrom(r))
	if err != nil {
		failure(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, ResumeListResponse{Resumes: list, Total: len(list)})
}

// handleCreateResume stores a new résumé for the caller
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	body, err := readResumeBody(r, w)
	if err != nil {
		failure(w, err)
		return
	}

	var record types.ResumeRecord
	if err := json.Unmarshal(body, &record); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.resumes.Create(r.Context(), middleware.IdentityFrom(r), &record)
	if err != nil {
		failure(w, err)
		return
	}
	w.Header().Set("Location", "/resumes/"+created.ID)
	jsonResponse(w, http.StatusCreated, created)
}

// handleGetResume returns one of the caller's résumés
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.ownedResume(r.Context(), middleware.IdentityFrom(r), r.PathValue("id"))
	if err != nil {
		failure(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateResume merges the fields present in the body into the résumé.
// The response holds the id, the patched fields and the new updatedAt.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.ownedResume(r.Context(), middleware.IdentityFrom(r), id); err != nil {
		failure(w, err)
		return
	}

	body, err := readResumeBody(r, w)
	if err != nil {
		failure(w, err)
		return
	}

	var patch types.ResumePatch
	if err := json.Unmarshal(body, &patch); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.resumes.Update(r.Context(), id, &patch)
	if err != nil {
		failure(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteResume removes a résumé. Deleting an unknown id succeeds; a
// second delete of the same id while the first is running gets 409.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	identity := middleware.IdentityFrom(r)

	release, err := s.guard.Acquire(r.Context(), deleteClaim(identity, id))
	if err != nil {
		if errors.Is(err, inflight.ErrInFlight) {
			errorResponse(w, http.StatusConflict, fmt.Sprintf("delete already in progress: %s", id))
			return
		}
		failure(w, err)
		return
	}
	defer release()

	rec, err := s.resumes.Get(r.Context(), id)
	if err != nil {
		failure(w, err)
		return
	}
	if rec == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if rec.UserID != identity.Key() {
		failure(w, &resumes.NotFoundError{ID: id})
		return
	}

	if err := s.resumes.Delete(r.Context(), id); err != nil {
		failure(w, err)
		return
	}
	log.Printf("[server] deleted resume %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// deleteClaim is the in-flight key of a delete. It includes the caller so
// that requests from other users never hold up the owner's delete.
func deleteClaim(identity types.Identity, id string) string {
	return "resume:" + identity.Key() + ":" + id
}

// handleDuplicateResume copies a résumé into a new one titled "<title> (copie)"
func (s *Server) handleDuplicateResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	identity := middleware.IdentityFrom(r)
	if _, err := s.ownedResume(r.Context(), identity, id); err != nil {
		failure(w, err)
		return
	}

	dup, err := s.resumes.Duplicate(r.Context(), identity, id)
	if err != nil {
		failure(w, err)
		return
	}
	w.Header().Set("Location", "/resumes/"+dup.ID)
	jsonResponse(w, http.StatusCreated, dup)
}
