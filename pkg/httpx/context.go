package httpx

import (
	"context"

	"github.com/lanternworks/memberauth/pkg/jwtx"
)

type principalKey struct{}
type authErrKey struct{}

// WithPrincipal installs the authenticated principal for the remainder of
// the request.
func WithPrincipal(ctx context.Context, p jwtx.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, if the authn
// filter installed one.
func PrincipalFromContext(ctx context.Context) (jwtx.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(jwtx.Principal)
	return p, ok
}

// withAuthError records why authentication failed so the access gate can
// report it. The filter itself never writes a response.
func withAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrKey{}, err)
}

// AuthErrorFromContext returns the verification failure recorded by the
// authn filter, or nil when the request simply carried no token.
func AuthErrorFromContext(ctx context.Context) error {
	err, _ := ctx.Value(authErrKey{}).(error)
	return err
}
