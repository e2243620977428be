package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced to API clients. Each maps to exactly one
// user-facing condition; handlers must never collapse them into a
// generic error.
const (
	KindInvalidInput         = "INVALID_INPUT"
	KindBillNotFound         = "BILL_NOT_FOUND"
	KindBillNotJoinable      = "BILL_NOT_JOINABLE"
	KindBillFull             = "BILL_FULL"
	KindCreatorCannotJoin    = "CREATOR_CANNOT_JOIN"
	KindDuplicateParticipant = "DUPLICATE_PARTICIPANT"
	KindInvalidAddress       = "INVALID_ADDRESS"
	KindParticipantNotFound  = "PARTICIPANT_NOT_FOUND"
	KindParticipantNotInBill = "PARTICIPANT_NOT_IN_BILL"
	KindFriendNotFound       = "FRIEND_NOT_FOUND"
	KindForbidden            = "FORBIDDEN"
	KindConflict             = "CONFLICT"
	KindStorageUnavailable   = "STORAGE_UNAVAILABLE"
	KindInternal             = "INTERNAL"
)

// AppError represents a custom application error
type AppError struct {
	Code       int      `json:"code"`
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError builds an InvalidInput error carrying every
// violated rule, not just the first.
func NewValidationError(violations []string) *AppError {
	message := "Invalid input"
	if len(violations) > 0 {
		message = violations[0]
	}
	return &AppError{
		Code:       http.StatusBadRequest,
		Kind:       KindInvalidInput,
		Message:    message,
		Violations: violations,
	}
}

// NewNotFoundError builds a 404 error with the given kind
func NewNotFoundError(kind, message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    kind,
		Message: message,
	}
}

// NewBadRequestError builds a 400 error with the given kind
func NewBadRequestError(kind, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    kind,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewConflictError signals a lost optimistic-concurrency race; the
// caller may retry against a fresh snapshot.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewStorageError signals that the key-value store cannot be reached.
// Fatal for the current request only, never for the process.
func NewStorageError(message string) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindStorageUnavailable,
		Message: message,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: message,
	}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}

// HandleError sends an appropriate HTTP response for an error
func HandleError(c *gin.Context, err error) {
	if appErr, ok := err.(*AppError); ok {
		body := gin.H{"error": appErr.Message, "kind": appErr.Kind}
		if len(appErr.Violations) > 0 {
			body["violations"] = appErr.Violations
		}
		c.JSON(appErr.Code, body)
		return
	}

	// Default to internal server error
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": KindInternal})
}

// HandleSuccess sends a success response
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
