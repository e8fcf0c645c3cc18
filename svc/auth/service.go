package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/pkg/schema"
	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

// IdentityProvider is the subset of the provider client used by the service.
type IdentityProvider interface {
	SignUp(ctx context.Context, p identity.SignUpParams) (identity.AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (identity.AuthResult, error)
	SignOut(ctx context.Context, token string) error
	ResolveUser(ctx context.Context, token string) (identity.Identity, error)
}

// ProfileStore persists local profiles.
type ProfileStore interface {
	Create(ctx context.Context, p profile.Profile) (*profile.Profile, error)
	FindByIdentityID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	Update(ctx context.Context, id uuid.UUID, patch profile.Patch) (*profile.Profile, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RegisterInput is a validated registration payload.
type RegisterInput struct {
	Email       string
	Password    string
	Role        profile.Role
	ProfileData schema.Values
}

// RegisterInputFromValues reads the output of the register schema.
func RegisterInputFromValues(v schema.Values) RegisterInput {
	return RegisterInput{
		Email:       v.String("email"),
		Password:    v.String("password"),
		Role:        profile.Role(v.String("role")),
		ProfileData: v.Object("profileData"),
	}
}

// PatchFromValues reads the output of the update_profile schema.
func PatchFromValues(v schema.Values) profile.Patch {
	var patch profile.Patch
	str := func(key string) *string {
		if !v.Has(key) {
			return nil
		}
		s := v.String(key)
		return &s
	}
	patch.DisplayName = str("display_name")
	patch.FirstName = str("first_name")
	patch.LastName = str("last_name")
	patch.Phone = str("phone")
	if data := v.Object("specialized_data"); len(data) > 0 {
		patch.SpecializedData = data.Map()
	}
	return patch
}

// Result is returned by Register and Login. Session is nil when the provider
// issued no tokens.
type Result struct {
	Identity identity.Identity `json:"user"`
	Session  *identity.Session `json:"session,omitempty"`
	Profile  *profile.Profile  `json:"profile"`
}

// CurrentUser is a verified identity together with its profile.
type CurrentUser struct {
	Identity identity.Identity
	Profile  *profile.Profile
}

// Service links provider identities to local profiles.
type Service struct {
	identity IdentityProvider
	store    ProfileStore
	log      *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for last-login stamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(idp IdentityProvider, store ProfileStore, opts ...ServiceOption) *Service {
	s := &Service{
		identity: idp,
		store:    store,
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth_service"))
	return s
}

// Register creates the provider identity and then its profile. The two
// writes are independent: when the profile insert fails the identity stays
// behind without a profile, is logged as orphan_identity and is treated as
// inactive by the pipeline.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}
	fields := map[string]any{"email": in.Email, "role": in.Role.String()}
	s.log.InfoContext(ctx, "registration attempt", logger.Event("register_attempt"), logger.Context(fields))

	data := in.ProfileData
	res, err := s.identity.SignUp(ctx, identity.SignUpParams{
		Email:    in.Email,
		Password: in.Password,
		Metadata: map[string]any{
			"first_name":   data.String("first_name"),
			"last_name":    data.String("last_name"),
			"display_name": data.String("display_name"),
			"role":         in.Role.String(),
		},
	})
	if err != nil {
		err = classify(err)
		s.log.ErrorContext(ctx, "registration failed", logger.Event("register_failed"), logger.Context(fields), logger.Error(err))
		return nil, err
	}
	fields["user_id"] = res.Identity.ID.String()

	specialized := make(map[string]any, len(data))
	for k, v := range data.Map() {
		if !slices.Contains(baseProfileKeys, k) {
			specialized[k] = v
		}
	}

	p, err := s.store.Create(ctx, profile.Profile{
		ID:              res.Identity.ID,
		Role:            in.Role,
		DisplayName:     data.String("display_name"),
		FirstName:       data.String("first_name"),
		LastName:        data.String("last_name"),
		IsActive:        true,
		SpecializedData: specialized,
	})
	if err != nil {
		err = classify(err)
		s.log.ErrorContext(ctx, "profile creation failed after signup",
			logger.Event("orphan_identity"), logger.Context(fields), logger.Error(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "registration succeeded", logger.Event("register_success"), logger.Context(fields))
	return &Result{Identity: res.Identity, Session: res.Session, Profile: p}, nil
}

// Login signs in and loads the profile. Every failure is reported as
// ErrInvalidCredentials so callers cannot tell which half failed.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	fields := map[string]any{"email": email}
	s.log.InfoContext(ctx, "login attempt", logger.Event("login_attempt"), logger.Context(fields))

	fail := func(stage string, err error) (*Result, error) {
		fields["stage"] = stage
		s.log.ErrorContext(ctx, "login failed", logger.Event("login_failed"), logger.Context(fields), logger.Error(err))
		return nil, errors.Join(ErrInvalidCredentials, err)
	}

	res, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return fail("sign_in", err)
	}
	fields["user_id"] = res.Identity.ID.String()

	p, err := s.store.FindByIdentityID(ctx, res.Identity.ID)
	if err != nil {
		return fail("profile", err)
	}

	at := s.now().UTC()
	if err := s.store.TouchLastLogin(ctx, p.ID, at); err != nil {
		return fail("last_login", err)
	}
	p.LastLogin = &at

	fields["role"] = p.Role.String()
	s.log.InfoContext(ctx, "login succeeded", logger.Event("login_success"), logger.Context(fields))
	return &Result{Identity: res.Identity, Session: res.Session, Profile: p}, nil
}

// Logout revokes the provider session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.log.InfoContext(ctx, "logout attempt", logger.Event("logout_attempt"))

	if err := s.identity.SignOut(ctx, token); err != nil {
		err = classify(err)
		s.log.ErrorContext(ctx, "logout failed", logger.Event("logout_failed"), logger.Error(err))
		return err
	}

	s.log.InfoContext(ctx, "logout succeeded", logger.Event("logout_success"))
	return nil
}

// GetProfile loads the profile of an identity.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := s.store.FindByIdentityID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

// UpdateProfile applies patch to an existing profile. An empty patch is not
// written and returns the stored profile as is.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch profile.Patch) (*profile.Profile, error) {
	if patch.Empty() {
		return s.GetProfile(ctx, id)
	}
	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		err = storeError(err)
		s.log.ErrorContext(ctx, "profile update failed",
			logger.Event("profile_update_failed"), logger.UserID(id.String()), logger.Error(err))
		return nil, err
	}
	return p, nil
}

// ResolveCurrentUser verifies token with the provider and loads its profile.
// A profile that exists but is not active yields ErrInactiveUser.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (*CurrentUser, error) {
	return resolveCurrentUser(ctx, s.identity, s, token)
}

// resolveCurrentUser runs verification before hydration; a rejected token
// never reaches the profile store.
func resolveCurrentUser(ctx context.Context, v TokenVerifier, h ProfileHydrator, token string) (*CurrentUser, error) {
	id, err := v.ResolveUser(ctx, token)
	if err != nil {
		return nil, identityError(err)
	}
	p, err := h.GetProfile(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, ErrInactiveUser
	}
	return &CurrentUser{Identity: id, Profile: p}, nil
}

func storeError(err error) error {
	if errors.Is(err, profile.ErrNotFound) {
		return errors.Join(ErrProfileNotFound, err)
	}
	return classify(err)
}

func identityError(err error) error {
	if errors.Is(err, identity.ErrInvalidToken) || errors.Is(err, identity.ErrMissingToken) {
		return errors.Join(ErrInvalidToken, err)
	}
	return errors.Join(ErrUpstream, err)
}
