package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived on purpose: they cannot
// be revoked mid-flight, so the exposure window is the TTL. Refresh tokens
// live as long as the session record in the keyed store.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 14 * 24 * time.Hour
)

// MemberClaim is the principal snapshot embedded in access tokens. It is a
// copy taken at issue time and may go stale relative to the member record
// until the next re-issue; verification never hits the database.
type MemberClaim struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// AccessClaims are the claims carried by access tokens. The snapshot lives
// under the "member" key; everything else is registered claims. Keeping the
// shape a tagged struct means malformed payloads fail at deserialization
// instead of blowing up on an untyped map later.
type AccessClaims struct {
	jwt.RegisteredClaims

	Member *MemberClaim `json:"member,omitempty"`
}

// RefreshClaims are deliberately minimal: subject, iat, exp. No snapshot, so
// a leaked refresh token carries no profile data and never serves stale
// identity fields.
type RefreshClaims struct {
	jwt.RegisteredClaims
}
