package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tournament-auth/handler"
	"github.com/dmitrymomot/tournament-auth/pkg/schema"
	"github.com/dmitrymomot/tournament-auth/svc/identity"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

// Middleware is a standard net/http middleware.
type Middleware = func(http.Handler) http.Handler

// RouterConfig wires the auth routes.
type RouterConfig struct {
	Service   *Service
	Schemas   *schema.Engine
	Transport *Transport
	Pipeline  *Pipeline
	Errors    *handler.ErrorWriter
	// Binder decodes request bodies into payload maps.
	Binder handler.Bind
	// Localizer renders success messages; nil leaves message keys as is.
	Localizer handler.Localizer
	// RegisterLimit and LoginLimit guard account creation and sign-in.
	RegisterLimit Middleware
	LoginLimit    Middleware
}

// Payload is an undecoded JSON object body.
type Payload = map[string]any

type loginUser struct {
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Role  profile.Role `json:"role"`
}

type authResponse struct {
	Message string            `json:"message"`
	User    any               `json:"user"`
	Profile *profile.Profile  `json:"profile"`
	Session *identity.Session `json:"session,omitempty"`
}

type profileResponse struct {
	Message string           `json:"message"`
	Profile *profile.Profile `json:"profile"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type routes struct {
	cfg RouterConfig
}

// NewRouter returns the auth routes, meant to be mounted under /auth.
func NewRouter(cfg RouterConfig) chi.Router {
	rt := &routes{cfg: cfg}
	passthrough := func(next http.Handler) http.Handler { return next }
	if rt.cfg.RegisterLimit == nil {
		rt.cfg.RegisterLimit = passthrough
	}
	if rt.cfg.LoginLimit == nil {
		rt.cfg.LoginLimit = passthrough
	}

	r := chi.NewRouter()
	p := cfg.Pipeline

	r.With(rt.cfg.RegisterLimit).Post("/register", wrapPayload(rt, rt.register))
	r.With(rt.cfg.LoginLimit).Post("/login", wrapPayload(rt, rt.login))

	r.Group(func(r chi.Router) {
		r.Use(p.RequireAuth)
		r.Post("/logout", wrapEmpty(rt, rt.logout))
		r.Get("/me", wrapEmpty(rt, rt.me))
		r.Patch("/profile", wrapPayload(rt, rt.updateProfile))
	})

	r.With(p.Gate(profile.RoleOrganizer)).Get("/organizer", wrapEmpty(rt, rt.me))
	r.With(p.Gate(profile.RolePlayer)).Get("/player", wrapEmpty(rt, rt.me))
	r.With(p.Gate(profile.RoleSpectator)).Get("/spectator", wrapEmpty(rt, rt.me))

	return r
}

func wrapPayload(rt *routes, h handler.HandlerFunc[handler.Context, Payload]) http.HandlerFunc {
	opts := []handler.WrapOption[handler.Context, Payload]{
		handler.WithErrorHandler[handler.Context, Payload](handler.NewErrorHandler(rt.cfg.Errors)),
	}
	if rt.cfg.Binder != nil {
		opts = append(opts, handler.WithBinder[handler.Context, Payload](rt.cfg.Binder))
	}
	return handler.Wrap(h, opts...)
}

func wrapEmpty(rt *routes, h handler.HandlerFunc[handler.Context, struct{}]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithErrorHandler[handler.Context, struct{}](handler.NewErrorHandler(rt.cfg.Errors)),
	)
}

func (rt *routes) message(ctx context.Context, key string) string {
	if rt.cfg.Localizer == nil {
		return key
	}
	if msg := rt.cfg.Localizer(ctx, key, nil); msg != "" {
		return msg
	}
	return key
}

func (rt *routes) register(ctx handler.Context, payload Payload) handler.Response {
	values, err := rt.cfg.Schemas.Validate(SchemaRegister, payload)
	if err != nil {
		return handler.Error(err)
	}

	res, err := rt.cfg.Service.Register(ctx, RegisterInputFromValues(values))
	if err != nil {
		return handler.Error(toHTTPError(err))
	}

	body := authResponse{
		Message: rt.message(ctx, "auth.register_success"),
		User:    res.Identity,
		Profile: res.Profile,
	}
	if rt.cfg.Transport.ExposeSession() {
		body.Session = res.Session
	}
	return handler.JSON(body, handler.WithJSONStatus(http.StatusCreated))
}

func (rt *routes) login(ctx handler.Context, payload Payload) handler.Response {
	values, err := rt.cfg.Schemas.Validate(SchemaLogin, payload)
	if err != nil {
		return handler.Error(err)
	}

	res, err := rt.cfg.Service.Login(ctx, values.String("email"), values.String("password"))
	if err != nil {
		return handler.Error(toHTTPError(err))
	}

	body := authResponse{
		Message: rt.message(ctx, "auth.login_success"),
		User: loginUser{
			ID:    res.Identity.ID.String(),
			Email: res.Identity.Email,
			Role:  res.Profile.Role,
		},
		Profile: res.Profile,
	}
	if rt.cfg.Transport.ExposeSession() {
		body.Session = res.Session
	}
	return handler.JSON(body, handler.WithCookies(rt.cfg.Transport.LoginCookies(res.Session)...))
}

func (rt *routes) logout(ctx handler.Context, _ struct{}) handler.Response {
	if err := rt.cfg.Service.Logout(ctx, TokenFromContext(ctx)); err != nil {
		return handler.Error(errors.Join(handler.NewHTTPError(http.StatusInternalServerError, "auth.logout_failed"), err))
	}
	return handler.JSON(
		messageResponse{Message: rt.message(ctx, "auth.logout_success")},
		handler.WithCookies(rt.cfg.Transport.LogoutCookies()...),
	)
}

func (rt *routes) me(ctx handler.Context, _ struct{}) handler.Response {
	p, ok := ProfileFromContext(ctx)
	if !ok {
		return handler.Error(handler.NewHTTPError(http.StatusUnauthorized, "auth.authentication_required"))
	}
	return handler.JSON(profileResponse{Message: rt.message(ctx, "auth.profile_fetched"), Profile: p})
}

func (rt *routes) updateProfile(ctx handler.Context, payload Payload) handler.Response {
	values, err := rt.cfg.Schemas.Validate(SchemaUpdateProfile, payload)
	if err != nil {
		return handler.Error(err)
	}

	current, ok := ProfileFromContext(ctx)
	if !ok {
		return handler.Error(handler.NewHTTPError(http.StatusUnauthorized, "auth.authentication_required"))
	}

	p, err := rt.cfg.Service.UpdateProfile(ctx, current.ID, PatchFromValues(values))
	if err != nil {
		return handler.Error(toHTTPError(err))
	}
	return handler.JSON(profileResponse{Message: rt.message(ctx, "auth.profile_updated"), Profile: p})
}
