package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateUserRequest represents the request to create a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// User is the public view of an account (no password hash).
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the UpdatePasswordRequest.
func (r *UpdatePasswordRequest) Validate() error {
	return Validator().Struct(r)
}

// Identity is the authenticated caller. It is passed explicitly to every
// store operation; the store only uses it as an opaque partition key.
type Identity struct {
	UserID uuid.UUID
}

// NewIdentity returns the identity of the given user.
func NewIdentity(userID uuid.UUID) Identity {
	return Identity{UserID: userID}
}

// Authenticated reports whether a user is signed in.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// Key returns the partition key stored in the userId field of documents.
func (i Identity) Key() string {
	if !i.Authenticated() {
		return ""
	}
	return i.UserID.String()
}
