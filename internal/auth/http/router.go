// Package http wires the handshake service onto the wire: route
// registration, request decoding, and the single place where service errors
// become HTTP statuses.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/service"
	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/pkg/httpx"
	"github.com/craftci/gatekeeper/pkg/jwtx"
	"github.com/craftci/gatekeeper/pkg/slogx"

	_ "github.com/craftci/gatekeeper/api/gatekeeper" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

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
	Handshake    *service.Handshake
	TokenService *service.TokenService
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
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerHandshake()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatekeeper Authorization API
//	@version		0.1.0
//	@description	OAuth handshake service for Craft CI: authorizes users against
//	@description	GitHub, validates CSRF state and redirect targets, and issues
//	@description	EdDSA-signed internal access tokens verifiable via the JWKS endpoint.
//
//	@contact.name				Craft CI Team
//	@contact.url				https://github.com/craftci/gatekeeper
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

func (r *Router) registerHandshake() {
	handshake := &HandshakeHandler{
		Handshake: r.Handshake,
		Logger:    r.logger,
	}

	// GET /authorize - lenient limit; just mints a state and redirects
	r.Mux.Handle("GET /authorize",
		httpx.Chain(http.HandlerFunc(handshake.HandleAuthorize),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /callback - strict limit; drives the provider exchange
	r.Mux.Handle("GET /callback",
		httpx.Chain(http.HandlerFunc(handshake.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /token-exchange - strict limit; non-browser variant
	r.Mux.Handle("POST /token-exchange",
		httpx.Chain(http.HandlerFunc(handshake.HandleTokenExchange),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	whoami := &WhoamiHandler{
		Store:  r.store,
		Tokens: r.TokenService,
		Logger: r.logger,
	}

	// GET /whoami - authenticated echo of the token's account
	r.Mux.Handle("GET /whoami",
		httpx.Chain(http.HandlerFunc(whoami.Handle),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
