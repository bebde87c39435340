package svcerrors

import (
	"errors"
	"fmt"
)

const (
	categoryInvalidArgument  = "invalid_argument"
	categoryEmptyInput       = "empty_input"
	categoryInsufficientData = "insufficient_data"
	categoryNotFound         = "not_found"
	categoryInternal         = "internal"
)

const (
	errorCodeInternalPanic     = "SYS_9000"
	errorCodeInternalUndefined = "SYS_9001"
)

// NewInvalidArgumentError creates a new ServiceError with category invalid_argument.
// Used for non-positive gap/bin widths, empty threshold lists and similar parameter failures.
func NewInvalidArgumentError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category:       categoryInvalidArgument,
		Code:           code,
		Message:        message,
		Cause:          cause,
		HttpStatusCode: 400,
	}
}

// NewEmptyInputError creates a new ServiceError with category empty_input.
// Used when no usable records remain after timestamp validation.
func NewEmptyInputError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category:       categoryEmptyInput,
		Code:           code,
		Message:        message,
		Cause:          cause,
		HttpStatusCode: 422,
	}
}

// NewInsufficientDataError creates a new ServiceError with category insufficient_data.
// Used when a decomposition level's guard condition is never met across the dataset,
// so callers can distinguish "no data" from "zero variance".
func NewInsufficientDataError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category:       categoryInsufficientData,
		Code:           code,
		Message:        message,
		Cause:          cause,
		HttpStatusCode: 422,
	}
}

// NewNotFoundError creates a new ServiceError with category not_found.
func NewNotFoundError(code, message string, cause error) *ServiceError {
	return &ServiceError{
		Category:       categoryNotFound,
		Code:           code,
		Message:        message,
		Cause:          cause,
		HttpStatusCode: 404,
	}
}

// NewInternalError creates a new ServiceError with category internal.
func NewInternalError(code string, cause error) *ServiceError {
	return &ServiceError{
		Category:       categoryInternal,
		Code:           code,
		Message:        "internal error",
		Cause:          cause,
		HttpStatusCode: 500,
	}
}

// NewInternalErrorUndefined creates a new ServiceError with category internal and code SYS_9001.
func NewInternalErrorUndefined(cause error) *ServiceError {
	return NewInternalError(errorCodeInternalUndefined, cause)
}

func NewInternalErrorPanic(cause error) *ServiceError {
	return NewInternalError(errorCodeInternalPanic, cause)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

// ServiceError represents a service-level error with category, code, message, and cause.
// It implements the error interface and supports error wrapping.
type ServiceError struct {
	Category       string // invalid_argument, empty_input, insufficient_data or internal
	Code           string // service-owned stable code (e.g. SEG_1000)
	Message        string // client-safe, human-readable
	Cause          error  // wrapped underlying error
	HttpStatusCode int    // HTTP status code
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error to support errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// As extracts a ServiceError from the error chain.
// It returns (*ServiceError, true) if err wraps a ServiceError, otherwise (nil, false).
func As(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, true
	}
	return nil, false
}

func (e *ServiceError) IsInternalError() bool {
	return e.Category == categoryInternal
}

func (e *ServiceError) IsEmptyInput() bool {
	return e.Category == categoryEmptyInput
}

func (e *ServiceError) IsInvalidArgument() bool {
	return e.Category == categoryInvalidArgument
}

func (e *ServiceError) IsInsufficientData() bool {
	return e.Category == categoryInsufficientData
}

// Category predicates over arbitrary error chains.

func IsInternalError(err error) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.IsInternalError()
}

func IsEmptyInput(err error) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.IsEmptyInput()
}

func IsInvalidArgument(err error) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.IsInvalidArgument()
}

func IsInsufficientData(err error) bool {
	svcErr, ok := AsServiceError(err)
	return ok && svcErr.IsInsufficientData()
}
