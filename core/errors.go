package core

import "errors"

// Sentinel errors shared by service implementations and agents. Wrap with
// fmt.Errorf("...: %w", err) to add call-site context.
var (
	// ErrNotFound indicates a lookup against an external service missed.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a create-path conflict (duplicate identity).
	ErrAlreadyExists = errors.New("already exists")
	// ErrMissingContactID indicates an operation that requires a resolved
	// external contact identifier was invoked without one.
	ErrMissingContactID = errors.New("contact id is required")
	// ErrSessionNotFound indicates the referenced session has been removed.
	ErrSessionNotFound = errors.New("session not found")
)
