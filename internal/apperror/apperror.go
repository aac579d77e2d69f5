// Package apperror defines the error kinds shared by the domain packages and
// the transport layer. A Kind is stable and safe to expose; the wrapped cause
// is for logs only.
package apperror

import "errors"

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindUnauthenticated   Kind = "unauthenticated"
	KindValidation        Kind = "validation_error"
	KindStorage           Kind = "storage_failure"
	KindResourceExhausted Kind = "resource_exhausted"
)

// Error carries a Kind, a caller-safe message and an optional internal cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Anything that is not an *Error is treated
// as a storage failure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	return KindStorage
}

// Message returns the caller-safe message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return "internal error"
}

// Storage wraps err as a storage failure unless it already carries a kind.
func Storage(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	return Wrap(KindStorage, "storage failure", err)
}
