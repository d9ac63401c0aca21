package availability

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service for a rejected request wraps one of these.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
	ErrConflict  = errors.New("conflict")
)

// CalendarError carries a kind and a human readable message.
type CalendarError struct {
	Kind    error
	Message string
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CalendarError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &CalendarError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
