package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrClientNotFound      = errors.New("client not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrConflict            = errors.New("record already exists")
	ErrReferenceNotFound   = errors.New("referenced record does not exist")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
)

// ValidationError carries a human-readable reason and matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
