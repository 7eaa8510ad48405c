package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/db"
)

// UserStore is the account storage used by UserService. *db.DB satisfies it.
// CreateUser returns db.ErrEmailTaken on a duplicate email.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

var (
	_ UserStore = (*db.DB)(nil)
	_ UserStore = (*MemoryUsers)(nil)
)

// MemoryUsers keeps accounts in process memory. It backs the server when no
// database is configured; accounts are lost on restart.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]db.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryUsers creates an empty in-memory account store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[uuid.UUID]db.User),
		byEmail: make(map[string]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryUsers) CreateUser(_ context.Context, name, email, passwordHash string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = db.NormalizeEmail(email)
	if _, taken := m.byEmail[email]; taken {
		return nil, db.ErrEmailTaken
	}

	now := m.now()
	u := db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	m.byID[u.ID] = u
	m.byEmail[email] = u.ID
	return &u, nil
}

func (m *MemoryUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryUsers) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	m.mu.RLock()
	id, ok := m.byEmail[db.NormalizeEmail(email)]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return m.GetUser(ctx, id)
}

func (m *MemoryUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = m.now()
	m.byID[id] = u
	return nil
}
