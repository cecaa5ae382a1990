package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/service"
	"github.com/aussiebroadwan/carhire/pkg/httpx"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/aussiebroadwan/carhire/pkg/slogx"

	_ "github.com/aussiebroadwan/carhire/api/devapi" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	AccountService *service.AccountService
	VehicleService *service.VehicleService
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerVehicles()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Car Hire Development API
//	@version		0.1.0
//	@description	Development stand-in for the car rental backend. Issues EdDSA signed access tokens
//	@description	and serves the account and vehicle endpoints the rental client talks to.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/carhire
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

// secured is the chain every authenticated route shares.
func (r *Router) secured(h http.Handler, extra ...httpx.Middleware) http.Handler {
	mws := []httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		RequireActiveAccount(r.AccountService),
		httpx.RateLimitByUser(httpx.APILimit),
	}
	return httpx.Chain(h, append(mws, extra...)...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AccountService: r.AccountService}

	// Credential endpoints are rate limited by IP to slow down guessing.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
	r.Mux.Handle("POST /auth/register-renter",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AccountService: r.AccountService}

	r.Mux.Handle("GET /users/{id}", r.secured(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("PATCH /users/{id}/active",
		r.secured(http.HandlerFunc(h.HandleSetActive), httpx.RequireRole(domain.RoleAdmin)),
	)
}

func (r *Router) registerVehicles() {
	h := &VehiclesHandler{VehicleService: r.VehicleService}

	r.Mux.Handle("GET /vehicles", r.secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("GET /vehicles/{id}", r.secured(http.HandlerFunc(h.HandleGet)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
}
