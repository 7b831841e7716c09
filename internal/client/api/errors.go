package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies how a request failed, so callers can react to the
// failure class instead of parsing messages or status codes.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindValidation
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Fields     []FieldError
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Unable to reach the server",
		cause:   err,
	}
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthenticated
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}

func IsUnauthenticated(err error) bool { return IsKind(err, KindUnauthenticated) }
func IsNotFound(err error) bool        { return IsKind(err, KindNotFound) }
func IsNetwork(err error) bool         { return IsKind(err, KindNetwork) }

// Message extracts the server-provided (or network) failure message, falling
// back to the raw error text for non-API errors.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// FieldMessages returns per-field validation messages, if any.
func FieldMessages(err error) []FieldError {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
