package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/tournament-auth/pkg/tracing"
)

const maxResponseBytes = 1 << 20

// Client talks to the provider through the GoTrue SDK.
type Client struct {
	api       gotrue.Client
	apiKey    string
	transport http.RoundTripper
	timeout   time.Duration
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient takes the transport and timeout of c.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c == nil {
			return
		}
		if c.Transport != nil {
			cl.transport = c.Transport
		}
		if c.Timeout > 0 {
			cl.timeout = c.Timeout
		}
	}
}

// WithTracer sets the tracer used for provider spans.
func WithTracer(t trace.Tracer) Option {
	return func(cl *Client) {
		if t != nil {
			cl.tracer = t
		}
	}
}

// New builds a Client. A zero Timeout falls back to ten seconds.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		api: gotrue.New("", cfg.APIKey).
			WithCustomGoTrueURL(strings.TrimRight(cfg.URL, "/") + "/auth/v1"),
		apiKey:    cfg.APIKey,
		transport: http.DefaultTransport,
		timeout:   timeout,
		tracer:    tracing.Tracer("github.com/dmitrymomot/tournament-auth/svc/identity"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignUp creates an identity with the given metadata attached.
func (c *Client) SignUp(ctx context.Context, p SignUpParams) (res AuthResult, err error) {
	ctx, span := c.tracer.Start(ctx, "identity.SignUp", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { tracing.End(span, err) }()

	api, ex, cancel := c.call(ctx, "")
	defer cancel()

	resp, err := api.Signup(types.SignupRequest{
		Email:    p.Email,
		Password: p.Password,
		Data:     p.Metadata,
	})
	if err != nil {
		return AuthResult{}, ex.err(err)
	}

	// Without auto-confirm the provider answers with the bare user object.
	return AuthResult{
		Identity: fromUser(resp.User),
		Session:  fromSession(resp.Session, c.now()),
	}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (res AuthResult, err error) {
	ctx, span := c.tracer.Start(ctx, "identity.SignInWithPassword", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { tracing.End(span, err) }()

	api, ex, cancel := c.call(ctx, "")
	defer cancel()

	resp, err := api.SignInWithEmailPassword(email, password)
	if err != nil {
		return AuthResult{}, ex.err(err)
	}
	session := fromSession(resp.Session, c.now())
	if session == nil {
		return AuthResult{}, fmt.Errorf("%w: token response without access token", ErrUnexpectedResponse)
	}
	return AuthResult{Identity: fromUser(resp.User), Session: session}, nil
}

// SignOut revokes the session behind token. A blank token is a no-op.
func (c *Client) SignOut(ctx context.Context, token string) (err error) {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	ctx, span := c.tracer.Start(ctx, "identity.SignOut", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { tracing.End(span, err) }()

	api, ex, cancel := c.call(ctx, token)
	defer cancel()

	return ex.err(api.Logout())
}

// ResolveUser asks the provider who owns token.
func (c *Client) ResolveUser(ctx context.Context, token string) (id Identity, err error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrMissingToken
	}
	ctx, span := c.tracer.Start(ctx, "identity.ResolveUser", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { tracing.End(span, err) }()

	api, ex, cancel := c.call(ctx, token)
	defer cancel()

	resp, err := api.GetUser()
	if err != nil {
		err = ex.err(err)
		var perr *ProviderError
		if errors.As(err, &perr) {
			switch perr.Status {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return Identity{}, fmt.Errorf("%w: %s", ErrInvalidToken, perr.Message)
			}
		}
		return Identity{}, err
	}

	span.SetAttributes(attribute.String("identity.id", resp.ID.String()))
	return fromUser(resp.User), nil
}

// Healthcheck reports whether the provider answers its health endpoint.
func (c *Client) Healthcheck(ctx context.Context) error {
	api, ex, cancel := c.call(ctx, "")
	defer cancel()

	_, err := api.HealthCheck()
	return ex.err(err)
}

// call returns an SDK client whose requests run under ctx and report back
// through the returned exchange. The SDK builds requests without a context
// and flattens provider errors into strings, so both are handled at the
// transport.
func (c *Client) call(ctx context.Context, token string) (gotrue.Client, *exchange, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	ex := &exchange{ctx: ctx, apiKey: c.apiKey, next: c.transport}
	api := c.api.WithClient(http.Client{Transport: ex})
	if token != "" {
		api = api.WithToken(token)
	}
	return api, ex, cancel
}

// exchange is a single-use RoundTripper bound to one provider call.
type exchange struct {
	ctx    context.Context
	apiKey string
	next   http.RoundTripper

	transportErr error
	failure      *ProviderError
}

func (e *exchange) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(e.ctx)
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.next.RoundTrip(req)
	if err != nil {
		e.transportErr = err
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, rerr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if rerr != nil {
			e.transportErr = rerr
			return nil, rerr
		}
		e.failure = providerError(resp.StatusCode, raw)
		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}
	return resp, nil
}

// err maps an SDK error onto the package's error values.
func (e *exchange) err(err error) error {
	switch {
	case err == nil:
		return nil
	case e.failure != nil:
		return e.failure
	case e.transportErr != nil:
		return fmt.Errorf("%w: %w", ErrUnavailable, e.transportErr)
	case errors.Is(err, types.ErrInvalidTokenRequest):
		return fmt.Errorf("identity: %w", err)
	default:
		return fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
}

func providerError(status int, raw []byte) *ProviderError {
	perr := &ProviderError{Status: status}
	var we wireError
	if err := json.Unmarshal(raw, &we); err == nil {
		perr.Message = we.text()
		perr.Code = we.code()
	}
	if perr.Message == "" {
		perr.Message = strings.TrimSpace(string(raw))
	}
	if perr.Message == "" {
		perr.Message = http.StatusText(status)
	}
	return perr
}
