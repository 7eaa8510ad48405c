package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Backend. It is used by tests and by the server
// when no database is configured.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	order       map[string][]string
	now         func() time.Time
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
		now:         time.Now,
	}
}

// WithClock replaces the clock used to resolve ServerTimestamp.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Query implements Backend. Results come back in insertion order.
func (m *Memory) Query(_ context.Context, collection, field string, value string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	var out []Snapshot
	for _, id := range m.order[collection] {
		doc, ok := docs[id]
		if !ok {
			continue
		}
		if got, ok := doc[field].(string); ok && got == value {
			out = append(out, Snapshot{ID: id, Data: doc.Clone()})
		}
	}
	return out, nil
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, collection, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return &Snapshot{ID: id, Data: doc.Clone()}, nil
}

// Add implements Backend.
func (m *Memory) Add(_ context.Context, collection string, data Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = m.resolve(data.Clone())
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

// Update implements Backend.
func (m *Memory) Update(_ context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return &ErrMissingDocument{Collection: collection, ID: id}
	}
	for k, v := range m.resolve(fields.Clone()) {
		doc[k] = v
	}
	return nil
}

// Delete implements Backend.
func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	ids := m.order[collection]
	for i, existing := range ids {
		if existing == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of documents in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *Memory) resolve(doc Document) Document {
	for k, v := range doc {
		if IsServerTimestamp(v) {
			doc[k] = m.now().UTC()
		}
	}
	return doc
}
