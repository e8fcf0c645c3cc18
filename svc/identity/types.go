package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"golang.org/x/oauth2"
)

// Identity is the provider-owned account record.
type Identity struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Metadata  map[string]any `json:"user_metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Session is the credential pair issued by the provider at sign-in.
type Session struct {
	oauth2.Token
}

// AuthResult is what sign-up and sign-in return. Session is nil when the
// provider requires email confirmation before issuing tokens.
type AuthResult struct {
	Identity Identity
	Session  *Session
}

// SignUpParams carries the credentials and the metadata stored on the identity.
type SignUpParams struct {
	Email    string
	Password string
	Metadata map[string]any
}

func fromUser(u types.User) Identity {
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		Metadata:  u.UserMetadata,
		CreatedAt: u.CreatedAt,
	}
}

// fromSession returns nil when the provider issued no access token.
func fromSession(s types.Session, now time.Time) *Session {
	if s.AccessToken == "" {
		return nil
	}
	expiresIn := int64(s.ExpiresIn)
	expiry := time.Time{}
	switch {
	case s.ExpiresAt > 0:
		expiry = time.Unix(s.ExpiresAt, 0).UTC()
	case expiresIn > 0:
		expiry = now.Add(time.Duration(expiresIn) * time.Second).UTC()
	}
	return &Session{Token: oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       expiry,
		ExpiresIn:    expiresIn,
	}}
}

// wireError covers the error shapes GoTrue has used across versions.
type wireError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e wireError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (e wireError) code() string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	if e.ErrorDescription != "" && e.Error != "" {
		return e.Error
	}
	return ""
}
