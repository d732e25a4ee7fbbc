package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies gateway failures into the categories callers map to
// HTTP statuses.
type ErrorKind int

const (
	KindServer ErrorKind = iota
	KindConfiguration
	KindValidation
	KindAuth
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindUpstream:
		return "upstream"
	default:
		return "server"
	}
}

// Error is a classified gateway error. Message is safe to show to the
// browser; Err carries the internal cause for logging.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the HTTP status the error surfaces as
func (e *Error) Status() int {
	switch e.Kind {
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewConfigurationError(message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Err: err}
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewAuthError(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

func NewUpstreamError(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

func NewServerError(message string, err error) *Error {
	return &Error{Kind: KindServer, Message: message, Err: err}
}

// IsKind reports whether err is a gateway error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == kind
}

// StatusAndMessage resolves err into the status and caller-safe message to
// respond with. Unclassified errors collapse to fallback.
func StatusAndMessage(err error, fallback string) (int, string) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Status(), gwErr.Message
	}
	return http.StatusInternalServerError, fallback
}
