package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lanternworks/memberauth/internal/member/service"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/internal/member/store"
	"github.com/lanternworks/memberauth/pkg/httpx"
	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/metricx"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	accessTTL    time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	sessions *session.Store

	AuthService         *service.AuthService
	SignUpService       *service.SignUpService
	VerificationService *service.VerificationService
}

func NewRouter(
	verifier *jwtx.Verifier,
	accessTTL time.Duration,
	buildVersion string,
	st store.Store,
	sessions *session.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		accessTTL:    accessTTL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		sessions:     sessions,
		logger:       logger,
	}

	// Global chain: request logging, metrics, then the authn filter. The
	// filter runs on every route but rejects nothing; gated routes opt in
	// via RequireAuth below.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metricx.Instrument,
		httpx.Authn(r.verifier),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMembers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signin - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /api/auth/signin",
		httpx.Chain(&SignInHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /token/refresh - strict rate limit by IP. No access gate: the
	// refresh token in the body is the credential here, and it may well be
	// presented after the access token has already expired.
	r.Mux.Handle("POST /api/auth/token/refresh",
		httpx.Chain(&RefreshHandler{Auth: r.AuthService, AccessTTL: int(r.accessTTL.Seconds())},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /signout - same reasoning, the body token is the credential.
	r.Mux.Handle("POST /api/auth/signout",
		httpx.Chain(&SignOutHandler{Auth: r.AuthService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMembers() {
	verification := &VerificationHandler{Verification: r.VerificationService}

	// Public sign-up endpoints, strict limits against abuse.
	r.Mux.Handle("POST /api/members",
		httpx.Chain(&SignUpHandler{SignUp: r.SignUpService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/members/verify/send",
		httpx.Chain(http.HandlerFunc(verification.HandleSend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/members/verify/confirm",
		httpx.Chain(http.HandlerFunc(verification.HandleConfirm),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - gated on a valid access token.
	r.Mux.Handle("GET /api/members/me",
		httpx.Chain(MeHandler{},
			httpx.RequireAuth(writeError),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", metricx.Handler())
}
