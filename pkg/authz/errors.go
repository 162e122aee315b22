package authz

import (
	"errors"
	"net/http"
)

// Error is a classified authorization failure. Code is stable and safe to
// return to clients, Err carries the underlying cause for logs only.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

var (
	// ErrAuthenticationRequired is returned when no credential is presented
	// or the subject it names no longer exists.
	ErrAuthenticationRequired = &Error{
		Code:    "authentication_required",
		Status:  http.StatusUnauthorized,
		Message: "Authentication required",
	}

	// ErrInvalidToken is returned for a credential that is malformed,
	// tampered with or expired.
	ErrInvalidToken = &Error{
		Code:    "invalid_token",
		Status:  http.StatusUnauthorized,
		Message: "Invalid or expired token",
	}

	// ErrAccountInactive is returned when the subject exists but is not
	// activated.
	ErrAccountInactive = &Error{
		Code:    "account_inactive",
		Status:  http.StatusForbidden,
		Message: "Account is not activated. Please contact an administrator.",
	}

	// ErrInsufficientPermissions is returned when the subject lacks the
	// required permission.
	ErrInsufficientPermissions = &Error{
		Code:    "insufficient_permissions",
		Status:  http.StatusForbidden,
		Message: "Insufficient permissions",
	}

	// ErrSystem is returned when authorization could not be decided.
	ErrSystem = &Error{
		Code:    "authorization_error",
		Status:  http.StatusInternalServerError,
		Message: "Authorization error",
	}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any Error with the same code, so a wrapped sentinel still
// classifies as the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Classify returns the Error in err's chain. Anything unclassified is a
// system error.
func Classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrSystem.Wrap(err)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return Classify(err).Status
}
