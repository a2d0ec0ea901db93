package core

import "github.com/google/uuid"

// NewID generates a unique event/session/contact identifier.
func NewID() string { return uuid.NewString() }
