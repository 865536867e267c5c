package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/metrics"
	"github.com/aussiebroadwan/linkgate/internal/access/service"
	"github.com/aussiebroadwan/linkgate/internal/access/store"
	"github.com/aussiebroadwan/linkgate/pkg/httpx"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/aussiebroadwan/linkgate/pkg/slogx"

	_ "github.com/aussiebroadwan/linkgate/api/access" // Swagger docs
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

	store   store.Store
	metrics *metrics.Metrics

	// Profiles are the per-route rate limits.
	Profiles httpx.Profiles
	// OwnerScopes, when set, are required (any of) on owner routes.
	OwnerScopes []string

	ProjectService       *service.ProjectService
	InviteService        *service.InviteService
	QuestionnaireService *service.QuestionnaireService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
		Profiles:     httpx.DefaultProfiles(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerProjects()
	r.registerTokens()
	r.registerGuestLinks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			linkgate API
//	@version		0.1.0
//	@description	Issues and validates opaque link tokens that let guests accept invitations and answer questionnaires without an account.
//	@description
//	@description				Owner routes need a bearer JWT from the host's identity provider. Guest routes take the token from the link path.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/linkgate
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

// owner wraps h with bearer authentication, the optional scope check and
// the per-user rate limit.
func (r *Router) owner(h http.HandlerFunc) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}
	if len(r.OwnerScopes) > 0 {
		mws = append(mws, httpx.RequireAnyScope(r.OwnerScopes...))
	}
	mws = append(mws, httpx.RateLimitByUser(r.Profiles.Owner))
	return httpx.Chain(h, mws...)
}

// guest wraps h with optional authentication and a per-IP rate limit.
func (r *Router) guest(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.OptionalAuthn(r.verifier),
		httpx.RateLimitByIP(limit),
	)
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{
		ProjectService:       r.ProjectService,
		InviteService:        r.InviteService,
		QuestionnaireService: r.QuestionnaireService,
	}

	r.Mux.Handle("POST /v1/projects", r.owner(h.HandleCreate))
	r.Mux.Handle("DELETE /v1/projects/{id}", r.owner(h.HandleDelete))
	r.Mux.Handle("POST /v1/projects/{id}/invites", r.owner(h.HandleInvite))
	r.Mux.Handle("POST /v1/projects/{id}/questionnaire-link", r.owner(h.HandleQuestionnaireLink))
	r.Mux.Handle("GET /v1/projects/{id}/guests", r.owner(h.HandleListGuests))
	r.Mux.Handle("GET /v1/projects/{id}/responses", r.owner(h.HandleListResponses))
}

func (r *Router) registerTokens() {
	h := &RevokeHandler{ProjectService: r.ProjectService}
	r.Mux.Handle("POST /v1/tokens/revoke", r.owner(h.ServeHTTP))
}

func (r *Router) registerGuestLinks() {
	inv := &InviteLinkHandler{InviteService: r.InviteService}
	q := &QuestionnaireLinkHandler{QuestionnaireService: r.QuestionnaireService}

	r.Mux.Handle("GET /invite/{token}", r.guest(inv.HandleOpen, r.Profiles.GuestOpen))
	r.Mux.Handle("POST /invite/{token}/accept", r.guest(inv.HandleAccept, r.Profiles.GuestSubmit))
	r.Mux.Handle("GET /questionnaire/{token}", r.guest(q.HandleOpen, r.Profiles.GuestOpen))
	r.Mux.Handle("POST /questionnaire/{token}", r.guest(q.HandleSubmit, r.Profiles.GuestSubmit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Profiles.Owner),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.Profiles.Owner),
		),
	)
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
