package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies one failure class of the scheduling and chat core.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeNotFound           ErrorCode = "notFound"
	CodeNoAvailability     ErrorCode = "noAvailability"
	CodeOverlapConflict    ErrorCode = "overlapConflict"
	CodeStateError         ErrorCode = "stateError"
	CodePersistenceFailure ErrorCode = "persistenceFailure"
)

// AppError is a typed domain error. The code lets callers distinguish
// "try a different slot" (overlapConflict) from "retry later"
// (persistenceFailure) from "not allowed" (unauthorized, stateError).
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPStatus maps the error code to its response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeNoAvailability:
		return http.StatusNotFound
	case CodeOverlapConflict, CodeStateError:
		return http.StatusConflict
	case CodePersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func NewValidationError(msg string) error {
	return &AppError{Code: CodeValidation, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &AppError{Code: CodeUnauthorized, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewNoAvailabilityError(msg string) error {
	return &AppError{Code: CodeNoAvailability, Message: msg}
}

func NewOverlapConflictError(msg string) error {
	return &AppError{Code: CodeOverlapConflict, Message: msg}
}

func NewStateError(msg string) error {
	return &AppError{Code: CodeStateError, Message: msg}
}

func NewPersistenceFailure(msg string, err error) error {
	return &AppError{Code: CodePersistenceFailure, Message: msg, Err: err}
}
