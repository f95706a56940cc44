package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Error codes surfaced by the verification core.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeStorageFailure    = "STORAGE_FAILURE"
	CodeInternal          = "INTERNAL_ERROR"
)

// Standard domain error constructors.

// ErrValidation marks bad input the caller can fix and retry.
func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: 400}
}

// ErrUnauthorized marks a request with missing or unusable credentials.
func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg, Status: 401}
}

// ErrInvalidTransition marks a state machine rule violation; the caller
// holds a stale view of the entity, nothing is corrupted.
func ErrInvalidTransition(msg string) *AppError {
	return &AppError{Code: CodeInvalidTransition, Message: msg, Status: 409}
}

// ErrAccessDenied carries only the policy reason; it never reveals whether
// the resource exists.
func ErrAccessDenied(reason string) *AppError {
	return &AppError{Code: CodeAccessDenied, Message: reason, Status: 403}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

// ErrStorageFailure marks a transient backing-medium failure. Ingest is
// side-effect-free on failure, so the whole call is safe to retry.
func ErrStorageFailure(cause error) *AppError {
	return &AppError{Code: CodeStorageFailure, Message: "storage unavailable, try again", Status: 503, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, Status: 500, Cause: cause}
}
