package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("conflict")
	ErrCacheMiss = errors.New("cache miss")
	ErrStorage   = errors.New("storage failure")
)

// Launch data failures. Callers outside the auth service only ever see
// ErrInvalidInitData, the rest are for logs.
var (
	ErrInvalidInitData   = errors.New("invalid Telegram data")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrMissingIdentity   = errors.New("missing user field")
	ErrMalformedIdentity = errors.New("malformed user field")
	ErrMissingTimestamp  = errors.New("missing auth_date field")
	ErrExpired           = errors.New("launch data expired")
)

// AuthenticationError is returned when a bearer token cannot be accepted.
type AuthenticationError struct {
	Reason string
	Err    error
}

// NewAuthenticationError creates an AuthenticationError with the given reason.
func NewAuthenticationError(reason string, err error) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: err}
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsAuthenticationError reports whether err is an AuthenticationError.
func IsAuthenticationError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
