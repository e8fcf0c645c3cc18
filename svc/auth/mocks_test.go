package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) SignUp(ctx context.Context, p identity.SignUpParams) (identity.AuthResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(identity.AuthResult), args.Error(1)
}

func (m *mockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (identity.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(identity.AuthResult), args.Error(1)
}

func (m *mockIdentityProvider) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockIdentityProvider) ResolveUser(ctx context.Context, token string) (identity.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.Identity), args.Error(1)
}

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) Create(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *mockProfileStore) FindByIdentityID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *mockProfileStore) Update(ctx context.Context, id uuid.UUID, patch profile.Patch) (*profile.Profile, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *mockProfileStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockHydrator struct {
	mock.Mock
}

func (m *mockHydrator) GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

type recorder struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recorder) RecordRejection(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) Reasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}
