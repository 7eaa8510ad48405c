// Package resumes is the résumé record store: create, read, update,
// duplicate and delete operations over a document backend.
package resumes

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/cv-builder/internal/docstore"
	"github.com/jonathan/cv-builder/internal/types"
)

// Collection is the backend collection holding résumés.
const Collection = "resumes"

// DuplicateSuffix is appended to the title of a duplicated résumé.
const DuplicateSuffix = " (copie)"

// FallbackTitle replaces an empty title when a résumé is duplicated or exported.
const FallbackTitle = "CV"

// Fields managed by the store rather than the editor.
const (
	fieldUserID    = "userId"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
	fieldID        = "id"
)

// Store mediates résumé operations against a document backend.
type Store struct {
	backend docstore.Backend
	now     func() time.Time
}

// NewStore creates a Store over backend.
func NewStore(backend docstore.Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// WithClock replaces the clock used for client-side timestamp approximations.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// ListByUser returns every résumé owned by the identity, in backend order.
// Documents that cannot be decoded are logged and left out.
func (s *Store) ListByUser(ctx context.Context, identity types.Identity) ([]*types.ResumeRecord, error) {
	if !identity.Authenticated() {
		return nil, ErrUnauthenticated
	}

	snaps, err := s.backend.Query(ctx, Collection, fieldUserID, identity.Key())
	if err != nil {
		log.Printf("[resumes] failed to list resumes for %s: %v", identity.Key(), err)
		return nil, &StoreError{Op: "list", Cause: err}
	}

	now := s.now()
	out := make([]*types.ResumeRecord, 0, len(snaps))
	for _, snap := range snaps {
		rec, err := fromSnapshot(snap, now)
		if err != nil {
			log.Printf("[resumes] skipping resume %s of %s: %v", snap.ID, identity.Key(), err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns the résumé with the given id, or nil when it does not exist.
// A stored document that cannot be decoded gives a *DecodeError.
func (s *Store) Get(ctx context.Context, id string) (*types.ResumeRecord, error) {
	snap, err := s.backend.Get(ctx, Collection, id)
	if err != nil {
		log.Printf("[resumes] failed to get resume %s: %v", id, err)
		return nil, &StoreError{Op: "get", ID: id, Cause: err}
	}
	if snap == nil {
		return nil, nil
	}
	rec, err := fromSnapshot(*snap, s.now())
	if err != nil {
		log.Printf("[resumes] failed to read resume %s: %v", id, err)
		return nil, err
	}
	return rec, nil
}

// Create stores record as a new résumé owned by identity. The backend
// assigns the id and server timestamps; the returned record carries local
// approximations of those timestamps.
func (s *Store) Create(ctx context.Context, identity types.Identity, record *types.ResumeRecord) (*types.ResumeRecord, error) {
	if !identity.Authenticated() {
		return nil, ErrUnauthenticated
	}

	rec := record.Clone()
	if rec == nil {
		rec = &types.ResumeRecord{}
	}
	rec.Reconcile()
	if err := rec.Validate(); err != nil {
		return nil, &ValidationError{Message: "invalid resume", Cause: err}
	}

	doc, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	doc[fieldUserID] = identity.Key()
	doc[fieldCreatedAt] = docstore.ServerTimestamp
	doc[fieldUpdatedAt] = docstore.ServerTimestamp

	id, err := s.backend.Add(ctx, Collection, doc)
	if err != nil {
		log.Printf("[resumes] failed to create resume for %s: %v", identity.Key(), err)
		return nil, &StoreError{Op: "create", Cause: err}
	}

	now := s.now()
	rec.ID = id
	rec.UserID = identity.Key()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

// Update merges the fields present in patch into the stored résumé and
// refreshes its updatedAt. The returned record holds only the id, the
// patched fields and a local updatedAt; it is not read back.
func (s *Store) Update(ctx context.Context, id string, patch *types.ResumePatch) (*types.ResumeRecord, error) {
	if patch == nil {
		patch = &types.ResumePatch{}
	}
	patch.Reconcile()
	if err := patch.Validate(); err != nil {
		return nil, &ValidationError{Message: "invalid resume patch", Cause: err}
	}

	doc, err := docstore.Encode(patch)
	if err != nil {
		return nil, &ValidationError{Message: "invalid resume patch", Cause: err}
	}
	doc = docstore.NormalizeDocument(doc)
	doc[fieldUpdatedAt] = docstore.ServerTimestamp

	if err := s.backend.Update(ctx, Collection, id, doc); err != nil {
		var missing *docstore.ErrMissingDocument
		if errors.As(err, &missing) {
			return nil, &NotFoundError{ID: id}
		}
		log.Printf("[resumes] failed to update resume %s: %v", id, err)
		return nil, &StoreError{Op: "update", ID: id, Cause: err}
	}

	rec := &types.ResumeRecord{ID: id}
	patch.ApplyTo(rec)
	rec.UpdatedAt = s.now()
	return rec, nil
}

// Duplicate copies the résumé id into a new résumé owned by identity, with
// DuplicateSuffix appended to its title.
func (s *Store) Duplicate(ctx context.Context, identity types.Identity, id string) (*types.ResumeRecord, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &NotFoundError{ID: id}
	}

	dup := src.Clone()
	dup.ID = ""
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	title := dup.Title
	if title == "" {
		title = FallbackTitle
	}
	dup.Title = title + DuplicateSuffix

	return s.Create(ctx, identity, dup)
}

// Delete removes the résumé. Deleting a missing id succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, Collection, id); err != nil {
		log.Printf("[resumes] failed to delete resume %s: %v", id, err)
		return &StoreError{Op: "delete", ID: id, Cause: err}
	}
	return nil
}

// toDocument encodes the editable fields of rec, normalized for writing.
func toDocument(rec *types.ResumeRecord) (docstore.Document, error) {
	doc, err := docstore.Encode(rec)
	if err != nil {
		return nil, &ValidationError{Message: "invalid resume", Cause: err}
	}
	delete(doc, fieldID)
	delete(doc, fieldUserID)
	delete(doc, fieldCreatedAt)
	delete(doc, fieldUpdatedAt)
	return docstore.NormalizeDocument(doc), nil
}

// fromSnapshot parses a stored document into a record. Timestamps are
// coerced separately since backends store them in different shapes.
func fromSnapshot(snap docstore.Snapshot, now time.Time) (*types.ResumeRecord, error) {
	data := make(docstore.Document, len(snap.Data))
	for k, v := range snap.Data {
		data[k] = v
	}
	createdAt := coerceTime(data[fieldCreatedAt], now)
	updatedAt := coerceTime(data[fieldUpdatedAt], now)
	owner, _ := data[fieldUserID].(string)
	delete(data, fieldID)
	delete(data, fieldCreatedAt)
	delete(data, fieldUpdatedAt)
	delete(data, fieldUserID)

	var rec types.ResumeRecord
	if err := docstore.Decode(data, &rec); err != nil {
		return nil, &DecodeError{ID: snap.ID, Cause: err}
	}
	rec.ID = snap.ID
	rec.UserID = owner
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt
	rec.Reconcile()
	return &rec, nil
}
