package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/cv-builder/internal/docstore"
)

var _ docstore.Backend = (*DB)(nil)

// stampedFields is appended to a JSONB value in SQL. It turns the text array
// parameter into an object mapping each key to the database clock.
const stampedFields = `(SELECT COALESCE(jsonb_object_agg(k, to_jsonb(NOW())), '{}'::jsonb) FROM unnest(%s::text[]) AS k)`

// splitTimestamps separates ServerTimestamp placeholders from the rest of the
// document so they can be resolved with NOW() inside the statement.
func splitTimestamps(doc docstore.Document) ([]byte, []string, error) {
	plain := make(docstore.Document, len(doc))
	stamped := []string{}
	for k, v := range doc {
		if docstore.IsServerTimestamp(v) {
			stamped = append(stamped, k)
			continue
		}
		plain[k] = v
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return nil, nil, err
	}
	return data, stamped, nil
}

func decodeDocument(raw []byte) (docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = docstore.Document{}
	}
	return doc, nil
}

// Query returns every document of collection whose top-level field, read as
// text, equals value. Results are ordered by creation time.
func (db *DB) Query(ctx context.Context, collection, field string, value string) ([]docstore.Snapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = $1 AND data->>$2 = $3
		 ORDER BY created_at, id`,
		collection, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var out []docstore.Snapshot
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		out = append(out, docstore.Snapshot{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return out, nil
}

// Get retrieves a single document. It returns nil, nil when the id is unknown.
func (db *DB) Get(ctx context.Context, collection, id string) (*docstore.Snapshot, error) {
	var raw []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return &docstore.Snapshot{ID: id, Data: doc}, nil
}

// Add inserts a new document under a generated id.
func (db *DB) Add(ctx context.Context, collection string, data docstore.Document) (string, error) {
	payload, stamped, err := splitTimestamps(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.NewString()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data)
		 VALUES ($1, $2, $3::jsonb || `+fmt.Sprintf(stampedFields, "$4")+`)`,
		collection, id, payload, stamped,
	)
	if err != nil {
		return "", fmt.Errorf("failed to add document: %w", err)
	}
	return id, nil
}

// Update merges fields into the top level of an existing document.
func (db *DB) Update(ctx context.Context, collection, id string, fields docstore.Document) error {
	payload, stamped, err := splitTimestamps(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE documents
		 SET data = data || $3::jsonb || `+fmt.Sprintf(stampedFields, "$4")+`,
		     updated_at = NOW()
		 WHERE collection = $1 AND id = $2`,
		collection, id, payload, stamped,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &docstore.ErrMissingDocument{Collection: collection, ID: id}
	}
	return nil
}

// Delete removes a document. Missing ids are ignored.
func (db *DB) Delete(ctx context.Context, collection, id string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
