package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/rpsarena-go/internal/model"
	"github.com/mcoot/rpsarena-go/internal/services/account"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidMove        = "INVALID_MOVE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeArenaNotFound      = "ARENA_NOT_FOUND"
	CodeArenaFinished      = "ARENA_FINISHED"
	CodeArenaFull          = "ARENA_FULL"
	CodeAlreadyInArena     = "ALREADY_IN_ARENA"
	CodeNotAPlayer         = "NOT_A_PLAYER"
	CodeRegistryFull       = "REGISTRY_FULL"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrCredentialsRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Username and password are required"}}
	case errors.Is(err, model.ErrArenaNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Arena name is required"}}
	case errors.Is(err, model.ErrInvalidMove):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMove, "Move must be rock, paper or scissor"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrArenaNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeArenaNotFound, "Arena not found"}}
	case errors.Is(err, model.ErrArenaFinished):
		return &httpError{http.StatusConflict, APIError{CodeArenaFinished, "Arena has already finished"}}
	case errors.Is(err, model.ErrArenaFull):
		return &httpError{http.StatusConflict, APIError{CodeArenaFull, "Both player slots are taken"}}
	case errors.Is(err, model.ErrAlreadyInArena):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInArena, "Already in another arena"}}
	case errors.Is(err, model.ErrNotAPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeNotAPlayer, "Only seated players can submit moves"}}
	case errors.Is(err, model.ErrUserIDsExhausted):
		return &httpError{http.StatusConflict, APIError{CodeRegistryFull, "No more accounts can be created"}}

	// Map account errors
	case errors.Is(err, account.ErrIncorrectUsername),
		errors.Is(err, account.ErrIncorrectPassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, account.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
