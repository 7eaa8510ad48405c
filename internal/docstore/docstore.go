// Package docstore defines the document database contract the résumé store
// is written against, plus an in-memory implementation.
//
// Documents are schemaless JSON objects grouped in named collections and
// keyed by an opaque id chosen by the backend.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is a schemaless JSON object.
type Document map[string]any

// Snapshot is a document read back from a backend.
type Snapshot struct {
	ID   string
	Data Document
}

// Backend is the subset of document database operations the store needs.
type Backend interface {
	// Query returns the documents of collection whose top-level field equals value.
	Query(ctx context.Context, collection, field string, value string) ([]Snapshot, error)
	// Get returns the document with the given id, or nil when it does not exist.
	Get(ctx context.Context, collection, id string) (*Snapshot, error)
	// Add stores a new document and returns the id assigned to it.
	Add(ctx context.Context, collection string, data Document) (string, error)
	// Update merges fields into the top level of an existing document.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error
}

type serverTimestamp struct{}

// ServerTimestamp is a placeholder field value replaced by the backend's own
// clock when the document is written. Only top-level fields are resolved.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp placeholder.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// ErrMissingDocument is returned by Update when the id does not exist.
type ErrMissingDocument struct {
	Collection string
	ID         string
}

func (e *ErrMissingDocument) Error() string {
	return fmt.Sprintf("no document %s/%s", e.Collection, e.ID)
}

// Encode converts v into a Document through its JSON form.
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Decode fills v from the JSON form of doc.
func Decode(doc Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// Clone returns a deep copy of doc.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(d).(Document)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		out := make(Document, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
