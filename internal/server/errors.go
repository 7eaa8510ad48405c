package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/inflight"
	"github.com/jonathan/cv-builder/internal/resumes"
	"github.com/jonathan/cv-builder/internal/schemas"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors are matched through their chain; render failures and
// anything unrecognised map to 500.
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		badCreds      *ErrInvalidCredentials
		mismatch      *ErrPasswordMismatch
		userMissing   *ErrUserNotFound
		badRequest    *ErrValidation
		resumeMissing *resumes.NotFoundError
		badResume     *resumes.ValidationError
		storeFailure  *resumes.StoreError
		badSchema     *schemas.ValidationError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists), errors.Is(err, inflight.ErrInFlight):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch), errors.Is(err, resumes.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &userMissing), errors.As(err, &resumeMissing):
		return http.StatusNotFound
	case errors.As(err, &badRequest), errors.As(err, &badResume), errors.As(err, &badSchema):
		return http.StatusBadRequest
	case errors.As(err, &storeFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
