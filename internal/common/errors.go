// Package common defines sentinel errors and small helpers shared by the
// credential and catalog layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Validation errors, reported before the store is touched.
	ErrInvalidInput = errors.New("invalid input")

	// Uniqueness errors, raised from the store's UNIQUE constraints.
	ErrDuplicateUser = errors.New("user already exists")
	ErrDuplicateName = errors.New("cat name already exists")

	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is what callers see for any failed authentication.
	ErrUnauthorized = errors.New("invalid username or password")

	// Storage errors (connectivity, constraint engine faults, ...).
	ErrStorage = errors.New("storage error")
)

// authError is a failed authentication whose reason is kept for telemetry
// while still matching ErrUnauthorized.
type authError struct {
	reason string
}

func (e *authError) Error() string { return e.reason }

func (e *authError) Unwrap() error { return ErrUnauthorized }

var (
	// ErrUserNotFound: no account with the given username.
	ErrUserNotFound error = &authError{reason: "user not found"}

	// ErrInvalidCredentials: the account exists but the password is wrong.
	ErrInvalidCredentials error = &authError{reason: "invalid credentials"}
)

// StorageError wraps a driver error so that it matches ErrStorage while
// keeping the original error reachable through errors.As.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
