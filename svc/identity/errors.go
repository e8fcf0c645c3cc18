package identity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken means the provider does not recognise the bearer token.
	ErrInvalidToken = errors.New("identity: invalid token")
	// ErrMissingToken is returned before any remote call when the token is blank.
	ErrMissingToken = errors.New("identity: missing token")
	// ErrUnexpectedResponse wraps bodies that cannot be decoded.
	ErrUnexpectedResponse = errors.New("identity: unexpected provider response")
	// ErrUnavailable wraps transport failures reaching the provider.
	ErrUnavailable = errors.New("identity: provider unavailable")
)

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity provider: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("identity provider: %d: %s", e.Status, e.Message)
}
