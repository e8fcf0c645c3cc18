package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrProfileNotFound    = errors.New("auth: profile not found")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrInactiveUser       = errors.New("auth: inactive user")
	ErrUpstream           = errors.New("auth: upstream failure")
	ErrInvalidRole        = errors.New("auth: invalid role")
)

// failureRule maps a fragment of an upstream error message to a sentinel.
type failureRule struct {
	fragment string
	target   error
}

// failureTable is the closed set of provider and store messages that carry
// meaning. Matching is case-insensitive; first match wins.
var failureTable = []failureRule{
	{fragment: "duplicate key", target: ErrEmailTaken},
	{fragment: "already registered", target: ErrEmailTaken},
	{fragment: "already exists", target: ErrEmailTaken},
	{fragment: "invalid login", target: ErrInvalidCredentials},
}

// classify maps an upstream failure to a taxonomy sentinel. The original
// error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range failureTable {
		if strings.Contains(msg, rule.fragment) {
			return errors.Join(rule.target, err)
		}
	}
	return errors.Join(ErrUpstream, err)
}

// toHTTPError maps service errors to the status and message key written to
// clients. Validation errors and HTTPErrors pass through unchanged.
func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case validator.IsValidationError(err):
		return err
	case errors.Is(err, ErrInvalidCredentials):
		return handler.NewHTTPError(http.StatusUnauthorized, "auth.invalid_credentials")
	case errors.Is(err, ErrEmailTaken):
		return handler.NewHTTPError(http.StatusConflict, "auth.email_taken")
	case errors.Is(err, ErrProfileNotFound):
		return handler.NewHTTPError(http.StatusNotFound, "auth.profile_not_found")
	case errors.Is(err, ErrInvalidToken):
		return handler.NewHTTPError(http.StatusUnauthorized, "auth.token_invalid")
	case errors.Is(err, ErrInactiveUser):
		return handler.NewHTTPError(http.StatusUnauthorized, "auth.user_inactive")
	}
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	return errors.Join(handler.ErrInternalServerError, err)
}
