package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation      ErrorCategory = "VALIDATION"
	CategoryUnauthenticated ErrorCategory = "UNAUTHENTICATED"
	CategoryNotFound        ErrorCategory = "NOT_FOUND"
	CategoryConflict        ErrorCategory = "CONFLICT"
	CategoryInternal        ErrorCategory = "INTERNAL"
)

// FieldError is a single violated constraint on a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Fields() []FieldError
	Unwrap() error
	WithCause(cause error) DomainError
	WithFields(fields []FieldError) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	fields   []FieldError
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Fields() []FieldError {
	return e.fields
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		fields:   e.fields,
		cause:    cause,
	}
}

func (e *domainError) WithFields(fields []FieldError) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		fields:   fields,
		cause:    e.cause,
	}
}

// Is makes sentinel comparison work across WithCause/WithFields copies:
// two domain errors match when their codes match.
func (e *domainError) Is(target error) bool {
	var de DomainError
	if errors.As(target, &de) {
		return e.code == de.Code()
	}
	return false
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Shared taxonomy. Feature packages alias these rather than minting
// parallel codes, so errors.Is works across layers.
var (
	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"Validation failed",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthenticated,
		http.StatusUnauthorized,
		"invalid or expired token",
	)

	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryUnauthenticated,
		http.StatusUnauthorized,
		"missing or invalid authorization header",
	)

	// Duplicate registration answers 400 rather than 409, matching the
	// public API contract.
	ErrEmailAlreadyExists = NewDomainError(
		"EMAIL_ALREADY_EXISTS",
		CategoryConflict,
		http.StatusBadRequest,
		"User with this email already exists",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrCustomerNotFound = NewDomainError(
		"CUSTOMER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"Customer not found",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)

// InternalError builds an internal error with a caller-facing message
// and the underlying cause attached for logs. The result matches
// ErrInternalError under errors.Is.
func InternalError(message string, cause error) DomainError {
	err := NewDomainError(
		ErrInternalError.Code(),
		CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
