// Package service holds the account and OTP workflows.  Handlers translate
// the sentinel kinds below into HTTP status codes.
package service

import "errors"

// Error kinds.  Every error returned by the service either wraps one of
// these or is an unexpected internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error pairs a kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error { return &Error{Kind: kind, Message: msg} }

// ErrInvalidOTP is returned for a missing, mismatched or expired code.  The
// causes are deliberately indistinguishable.
var ErrInvalidOTP = newError(ErrValidation, "invalid or expired OTP")
