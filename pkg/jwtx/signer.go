package jwtx

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is what callers hand us to mint tokens for. It mirrors
// MemberClaim but lives outside the wire format so services don't couple to
// claim tags.
type Principal struct {
	ID       int64
	Email    string
	Nickname string
	Role     string
}

// Signer mints HS256 tokens with a single symmetric key. The key is loaded
// once at startup and never mutated afterwards, so concurrent use needs no
// synchronisation.
type Signer struct {
	key    []byte
	issuer string
}

// NewSigner validates the secret up front. HS256 with a short key is barely
// better than no signature, so we refuse anything under 32 bytes.
func NewSigner(secret []byte, issuer string) (*Signer, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: secret must be at least 32 bytes")
	}
	if issuer == "" {
		return nil, errors.New("jwtx: issuer must not be empty")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Signer{key: key, issuer: issuer}, nil
}

// IssueAccess builds an access token: registered claims plus the embedded
// principal snapshot. Pure with respect to I/O; identical inputs produce an
// identical token.
func (s *Signer) IssueAccess(p Principal, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("jwtx: access ttl must be positive")
	}
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Member: &MemberClaim{
			ID:       p.ID,
			Email:    p.Email,
			Nickname: p.Nickname,
			Role:     p.Role,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// IssueRefresh builds a refresh token with registered claims only. The
// subject is the stringified member id; the session store holds everything
// else.
func (s *Signer) IssueRefresh(p Principal, now time.Time, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("jwtx: refresh ttl must be positive")
	}
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
