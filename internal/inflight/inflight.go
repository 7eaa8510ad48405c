// Package inflight keeps at most one in-flight operation per key, so that a
// repeated request (a double-clicked delete, say) cannot race the first one.
package inflight

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned by Acquire while another holder owns the key.
var ErrInFlight = errors.New("operation already in flight")

// Guard hands out exclusive claims on keys. The returned release function
// must be called once the operation settles; calling it twice is harmless.
type Guard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Memory is a process-local Guard.
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory creates an empty process-local guard.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

// Acquire implements Guard.
func (m *Memory) Acquire(_ context.Context, key string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.held[key]; busy {
		return nil, ErrInFlight
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, nil
}

// Held reports whether key is currently claimed.
func (m *Memory) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, busy := m.held[key]
	return busy
}
