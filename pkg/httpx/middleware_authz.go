package httpx

import (
	"errors"
	"net/http"
	"slices"
)

// Gate failures for requests that never presented a verifiable token.
var (
	// ErrNoBearerToken: the route requires authentication and no bearer
	// token was presented.
	ErrNoBearerToken = errors.New("httpx: authentication required")

	// ErrForbidden: the principal is authenticated but its role is not
	// allowed on this route.
	ErrForbidden = errors.New("httpx: insufficient role")
)

// RejectFunc renders an authentication or authorisation failure. Routers
// supply one so all failures, filter-level and handler-level alike, go
// through a single response formatter.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth is the access gate: it admits the request only when the authn
// filter installed a principal. Otherwise it reports the recorded
// verification error, or ErrNoBearerToken when no token was presented at
// all.
func RequireAuth(reject RejectFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				if err := AuthErrorFromContext(r.Context()); err != nil {
					reject(w, r, err)
					return
				}
				reject(w, r, ErrNoBearerToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates on the principal's role on top of RequireAuth's checks.
func RequireRole(reject RejectFunc, roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		gated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := PrincipalFromContext(r.Context())
			if !slices.Contains(roles, p.Role) {
				reject(w, r, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
		return RequireAuth(reject)(gated)
	}
}
