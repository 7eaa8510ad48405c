package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/types"
)

// maxAuthBodyBytes bounds account request bodies.
const maxAuthBodyBytes = 16 << 10

// AuthHandler serves the account endpoints. Successful register and login
// responses carry a bearer token for the résumé API.
type AuthHandler struct {
	users  *UserService
	tokens *JWTService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *UserService, tokens *JWTService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// validatable is a request type whose pointer validates itself.
type validatable[T any] interface {
	*T
	Validate() error
}

// decodeRequest reads and validates a JSON body. On failure it writes the
// 400 response and returns false.
func decodeRequest[T any, P validatable[T]](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req := new(T)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBodyBytes)).Decode(req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := P(req).Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}
	return req, true
}

// Register creates an account and signs the caller in (201).
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest[types.CreateUserRequest](w, r)
	if !ok {
		return
	}
	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		failure(w, err)
		return
	}
	h.respondWithToken(w, http.StatusCreated, user)
}

// Login signs an existing account in.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest[types.LoginRequest](w, r)
	if !ok {
		return
	}
	user, err := h.users.Login(r.Context(), req)
	if err != nil {
		failure(w, err)
		return
	}
	h.respondWithToken(w, http.StatusOK, user)
}

// UpdatePassword changes the password of userID, which the caller has
// already authenticated as.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	req, ok := decodeRequest[types.UpdatePasswordRequest](w, r)
	if !ok {
		return
	}
	if err := h.users.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		failure(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		log.Printf("[server] failed to generate token for %s: %v", user.ID, err)
		errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}

// validationMessage reports the first failing field.
func validationMessage(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return "validation error: invalid request"
	}
	return fmt.Sprintf("validation error: %s - %s", fields[0].Field(), fields[0].Tag())
}
