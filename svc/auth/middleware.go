package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/logger"
	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

// Rejection reasons reported to the RejectionRecorder.
const (
	ReasonTokenMissing    = "token_missing"
	ReasonTokenInvalid    = "token_invalid"
	ReasonProfileMissing  = "profile_missing"
	ReasonInactive        = "inactive"
	ReasonUnauthenticated = "unauthenticated"
	ReasonRoleMismatch    = "role_mismatch"
	ReasonUpstream        = "upstream"
)

// TokenVerifier resolves a credential with the identity provider.
type TokenVerifier interface {
	ResolveUser(ctx context.Context, token string) (identity.Identity, error)
}

// ProfileHydrator loads the profile of a verified identity.
type ProfileHydrator interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// RejectionRecorder counts pipeline rejections by reason.
type RejectionRecorder interface {
	RecordRejection(reason string)
}

type noopRecorder struct{}

func (noopRecorder) RecordRejection(string) {}

// Pipeline authorizes requests: extract, verify, hydrate, attach, and
// optionally gate on role. Steps never reorder or skip.
type Pipeline struct {
	verifier  TokenVerifier
	hydrator  ProfileHydrator
	transport *Transport
	ew        *handler.ErrorWriter
	recorder  RejectionRecorder
	log       *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

func WithRejectionRecorder(r RejectionRecorder) PipelineOption {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

func WithPipelineLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

func NewPipeline(verifier TokenVerifier, hydrator ProfileHydrator, transport *Transport, ew *handler.ErrorWriter, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		verifier:  verifier,
		hydrator:  hydrator,
		transport: transport,
		ew:        ew,
		recorder:  noopRecorder{},
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("auth_pipeline"))
	return p
}

// RequireAuth rejects requests without a verified credential bound to an
// active profile. On success the identity and profile are in the context.
func (p *Pipeline) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := p.transport.Extract(r)
		if token == "" {
			p.reject(w, r, ReasonTokenMissing, handler.NewHTTPError(http.StatusUnauthorized, "auth.token_required"))
			return
		}

		cu, err := resolveCurrentUser(ctx, p.verifier, p.hydrator, token)
		if err != nil {
			p.reject(w, r, rejectionReason(err), pipelineError(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(withCurrentUser(ctx, token, cu.Identity, cu.Profile)))
	})
}

// RequireRole admits requests whose hydrated profile holds one of roles.
// It must run after RequireAuth; without a profile it answers 401.
func (p *Pipeline) RequireRole(roles ...profile.Role) func(http.Handler) http.Handler {
	required := make([]string, 0, len(roles))
	for _, r := range roles {
		required = append(required, r.String())
	}
	requiredText := strings.Join(required, " ou ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prof, ok := ProfileFromContext(r.Context())
			if !ok {
				p.reject(w, r, ReasonUnauthenticated, handler.NewHTTPError(http.StatusUnauthorized, "auth.authentication_required"))
				return
			}
			if !slices.Contains(roles, prof.Role) {
				p.reject(w, r, ReasonRoleMismatch, handler.NewHTTPError(http.StatusForbidden, "auth.role_required").
					WithValues(map[string]any{"required": requiredText, "actual": prof.Role.String()}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Gate composes RequireAuth and RequireRole in that order.
func (p *Pipeline) Gate(roles ...profile.Role) func(http.Handler) http.Handler {
	gate := p.RequireRole(roles...)
	return func(next http.Handler) http.Handler {
		return p.RequireAuth(gate(next))
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return ReasonTokenInvalid
	case errors.Is(err, ErrProfileNotFound):
		return ReasonProfileMissing
	case errors.Is(err, ErrInactiveUser):
		return ReasonInactive
	default:
		return ReasonUpstream
	}
}

// pipelineError hides whether a profile is missing or disabled: both read as
// an inactive user.
func pipelineError(err error) error {
	if errors.Is(err, ErrProfileNotFound) {
		return toHTTPError(ErrInactiveUser)
	}
	return toHTTPError(err)
}

func (p *Pipeline) reject(w http.ResponseWriter, r *http.Request, reason string, err error) {
	p.recorder.RecordRejection(reason)
	p.log.DebugContext(r.Context(), "request rejected", logger.Reason(reason), slog.String("path", r.URL.Path))
	p.ew.Write(w, r, err)
}
