package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed covers every login failure. Callers never learn
	// whether the email or the password was wrong.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidToken indicates a missing, malformed, or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.New("expired token")
	// ErrNotAuthorized indicates an authenticated requester forbidden by the
	// membership rule.
	ErrNotAuthorized = errors.New("can only access records within the same organisation")
	// ErrUserNotFound signals a user id or email that resolves to nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrgNotFound signals an unknown organisation id.
	ErrOrgNotFound = errors.New("organisation not found")
	// ErrDuplicateIdentity signals a uniqueness conflict on create.
	ErrDuplicateIdentity = errors.New("duplicate identity")
)

// ValidationError names the first request field that was missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s Missing", e.Field)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}
