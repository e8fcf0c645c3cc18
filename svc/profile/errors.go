package profile

import "errors"

var (
	// ErrNotFound is returned when no profile row matches the identity id.
	ErrNotFound = errors.New("profile: not found")
	// ErrInvalidRole rejects roles outside the closed role set.
	ErrInvalidRole = errors.New("profile: invalid role")
)
