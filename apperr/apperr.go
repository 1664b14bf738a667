package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidOutcome      = errors.New("invalid outcome")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Upstream marks err as a store or collaborator failure. The cause stays in
// the chain for logging.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}

// Invalid wraps a validation message as ErrInvalidOutcome.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOutcome, fmt.Sprintf(format, args...))
}

// Error is the client-facing form of an error.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError maps err onto a status, code and message that are safe to show a
// client. Store and collaborator details are never included.
func FromError(err error) *Error {
	var ae *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, ErrNotFound):
		return &Error{Status: http.StatusNotFound, Code: "not_found", Message: err.Error(), Err: err}
	case errors.Is(err, ErrAlreadyExists):
		return &Error{Status: http.StatusConflict, Code: "already_exists", Message: err.Error(), Err: err}
	case errors.Is(err, ErrInvalidOutcome):
		return &Error{Status: http.StatusBadRequest, Code: "invalid_outcome", Message: err.Error(), Err: err}
	case errors.Is(err, ErrUpstreamUnavailable):
		return &Error{Status: http.StatusServiceUnavailable, Code: "upstream_unavailable", Message: "service temporarily unavailable", Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Code: "internal", Message: "internal error", Err: err}
	}
}
