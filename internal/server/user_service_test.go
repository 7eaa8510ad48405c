package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicUser(t *testing.T) {
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         "Camille Martin",
		Email:        "camille@example.com",
		PasswordHash: "hashed-password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	got := publicUser(u)
	require.NotNil(t, got)
	assert.Equal(t, types.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: now, UpdatedAt: now}, *got)
	assert.Nil(t, publicUser(nil))
}

func newTestUserService() (*UserService, *MemoryUsers) {
	users := NewMemoryUsers()
	return NewUserService(users, &config.PasswordConfig{BcryptCost: config.MinBcryptCost}), users
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestUserService()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Camille", Email: "Camille@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "camille@example.com", user.Email)

	stored, err := users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "Again", Email: "camille@example.com", Password: "password123"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestUserService()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Camille", Email: "camille@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{Email: "camille@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Camille", user.Name)

	var badCreds *ErrInvalidCredentials
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "camille@example.com", Password: "nope"})
	assert.ErrorAs(t, err, &badCreds)
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorAs(t, err, &badCreds)

	// an empty hash never verifies
	_, err = users.CreateUser(ctx, "Legacy", "legacy@example.com", "")
	require.NoError(t, err)
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "legacy@example.com", Password: ""})
	assert.ErrorAs(t, err, &badCreds)
}

func TestUserService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestUserService()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Camille", Email: "camille@example.com", Password: "password123"})
	require.NoError(t, err)

	var mismatch *ErrPasswordMismatch
	assert.ErrorAs(t, svc.UpdatePassword(ctx, user.ID, "wrong", "new-password-1"), &mismatch)

	var missing *ErrUserNotFound
	assert.ErrorAs(t, svc.UpdatePassword(ctx, uuid.New(), "password123", "new-password-1"), &missing)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "password123", "new-password-1"))
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "camille@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()

	created, err := users.CreateUser(ctx, "Camille", "Camille@Example.com", "h1")
	require.NoError(t, err)
	assert.Equal(t, "camille@example.com", created.Email)

	_, err = users.CreateUser(ctx, "Twin", "camille@example.com ", "h2")
	assert.ErrorIs(t, err, db.ErrEmailTaken)

	byEmail, err := users.GetUserByEmail(ctx, "CAMILLE@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	none, err := users.GetUserByEmail(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, none)

	none, err = users.GetUser(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, users.UpdatePassword(ctx, created.ID, "h3"))
	got, err := users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "h3", got.PasswordHash)

	got.Name = "mutated"
	again, _ := users.GetUser(ctx, created.ID)
	assert.Equal(t, "Camille", again.Name, "reads return copies")

	assert.Error(t, users.UpdatePassword(ctx, uuid.New(), "hash"))
}
