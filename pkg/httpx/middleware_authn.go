package httpx

import (
	"net/http"
	"strings"

	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// Authn is the per-request authentication filter. It extracts the bearer
// token, verifies it, and on success installs the principal into the request
// context. It never rejects a request itself: a missing token passes through
// with no principal, and a bad token passes through with the typed error
// recorded in context. Whether that is acceptable for the target route is
// the access gate's call, which keeps error formatting in exactly one place.
func Authn(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := v.VerifyAccess(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("bearer token rejected", "err", err)
				next.ServeHTTP(w, r.WithContext(withAuthError(ctx, err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

// BearerToken pulls the token out of an "Authorization: Bearer {token}"
// header; empty when the header is absent or not bearer-shaped.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}
