package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/pkg/httpx"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"

	_ "github.com/aussiebroadwan/tasktrack/api/tasks" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits picks the limiter profile of each route group.
type RateLimits struct {
	Strict   httpx.RateLimitConfig // signup, login, refresh
	Moderate httpx.RateLimitConfig // authenticated writes
	Lenient  httpx.RateLimitConfig // authenticated reads
	Public   httpx.RateLimitConfig // health, JWKS
}

// DefaultRateLimits returns the httpx profiles, after their env overrides.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Pinger is an optional dependency checked by readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Location renders task timestamps. Nil means time.Local.
	Location *time.Location
	Limits   RateLimits
	Cache    Pinger // optional: revocation backend

	// One bucket store per profile, built by ApplyRoutes, so every route of
	// a group draws from the same per-caller budget.
	strict, moderate, lenient, public httpx.Middleware

	TaskService    *service.TaskService
	QueryService   *service.TaskQueryService
	UserService    *service.UserService
	SessionService *service.SessionService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ApplyRoutes registers every route. Services must be set first.
func (r *Router) ApplyRoutes() {
	r.strict = httpx.RateLimitByIP(r.Limits.Strict)
	r.moderate = httpx.RateLimitByUser(r.Limits.Moderate)
	r.lenient = httpx.RateLimitByUser(r.Limits.Lenient)
	r.public = httpx.RateLimitByIP(r.Limits.Public)

	r.registerAuth()
	r.registerUsers()
	r.registerTasks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Task Tracker API
//	@version		0.1.0
//	@description	Role-based task tracker. Leads see every task; developers create and manage their own.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tasktrack
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers pattern with and without a trailing slash.
func (r *Router) handle(method, path string, h http.Handler) {
	r.Mux.Handle(method+" "+path, h)
	r.Mux.Handle(method+" "+path+"/{$}", h)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, r.SessionService.IsRevoked)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:    r.UserService,
		SessionService: r.SessionService,
	}

	// Credential endpoints are keyed by IP.
	r.handle(http.MethodPost, "/signup", httpx.Chain(http.HandlerFunc(h.HandleSignup), r.strict))
	r.handle(http.MethodPost, "/login", httpx.Chain(http.HandlerFunc(h.HandleLogin), r.strict))
	r.handle(http.MethodPost, "/token/refresh", httpx.Chain(http.HandlerFunc(h.HandleRefresh), r.strict))

	r.handle(http.MethodPost, "/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout), r.authn(), r.moderate))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.handle(http.MethodGet, "/users", httpx.Chain(h, r.authn(), r.lenient))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{
		TaskService:  r.TaskService,
		QueryService: r.QueryService,
		Location:     r.Location,
	}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, r.authn(), r.lenient)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, r.authn(), r.moderate)
	}

	r.handle(http.MethodGet, "/tasks", read(h.HandleList))
	r.handle(http.MethodPost, "/tasks", write(h.HandleCreate))
	r.handle(http.MethodGet, "/tasks/{id}", read(h.HandleGet))
	r.handle(http.MethodPut, "/tasks/{id}", write(h.HandleUpdate))
	r.handle(http.MethodPatch, "/tasks/{id}", write(h.HandleUpdate))
	r.handle(http.MethodDelete, "/tasks/{id}", write(h.HandleDelete))
}

func (r *Router) registerSystem() {
	h := &SystemHandler{
		Started: r.startTime,
		Version: r.buildVersion,
		DB:      r.store,
		Keys:    r.keys,
		Cache:   r.Cache,
	}

	r.Mux.Handle("GET /livez", httpx.Chain(http.HandlerFunc(h.HandleLivez), r.public))
	r.Mux.Handle("GET /readyz", httpx.Chain(http.HandlerFunc(h.HandleReadyz), r.public))
	r.Mux.Handle("GET /.well-known/jwks.json", httpx.Chain(http.HandlerFunc(h.HandleJWKS), r.public))
}
