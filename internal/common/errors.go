// Package common defines shared constants and sentinel errors used across
// the repository, service and transport layers of ImuneTrack. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors.
	ErrorValidation   = errors.New("validation error")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Error is a service failure carrying a message that is safe to show to API
// clients. Kind is one of the sentinel errors above.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError builds an *Error of the given kind.
func NewError(kind error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Validation(detail string) *Error { return NewError(ErrorValidation, detail) }

func Conflict(detail string) *Error { return NewError(ErrorConflict, detail) }

func NotFound(detail string) *Error { return NewError(ErrorNotFound, detail) }

// Detail returns the client-facing message of err, or fallback when err does
// not carry one.
func Detail(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}
