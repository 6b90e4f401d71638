// Package server provides the HTTP REST API for the career document backend.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/types"
)

// rejectionMessage is the only detail ever returned to clients when a
// generated document fails fact verification. The concrete violations stay in
// the audit log; exposing them would leak the baseline contents.
const rejectionMessage = "could not verify generated content"

// ErrEmailAlreadyExists indicates email is already registered.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates the user was not found.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// HTTPStatus returns the HTTP status code for a service-layer error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// StatusForCode maps a result code to its HTTP status. Fact-verification
// rejections are 422: the request was well-formed, the generated content was
// not acceptable.
func StatusForCode(code types.Code) int {
	switch {
	case code == types.CodeSuccess:
		return http.StatusOK
	case code.IsRejection():
		return http.StatusUnprocessableEntity
	case code == types.CodeNotFound:
		return http.StatusNotFound
	case code == types.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
