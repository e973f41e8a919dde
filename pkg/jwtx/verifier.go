package jwtx

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Failure taxonomy. Callers branch with errors.Is; the HTTP boundary maps
// each kind to a status code exactly once.
var (
	// ErrInvalidToken covers malformed, unsigned, tampered, or structurally
	// uncoercible tokens. A forged-and-expired token reports this, never
	// ErrTokenExpired: signature checks run before expiry checks.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrTokenExpired means the signature was fine but exp is in the past.
	ErrTokenExpired = errors.New("jwtx: token expired")

	// ErrMissingClaim means a validly signed access token had no member
	// snapshot claim.
	ErrMissingClaim = errors.New("jwtx: missing member claim")
)

// Verifier checks token signatures and extracts claims. Like Signer it holds
// the key read-only, so it is safe for concurrent use.
type Verifier struct {
	key    []byte
	issuer string
	parser *jwt.Parser
}

func NewVerifier(secret []byte, issuer string) (*Verifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: secret must be at least 32 bytes")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Verifier{
		key:    key,
		issuer: issuer,
		// Claims validation is done by hand below so that the failure order
		// is strict: parse, signature, expiry, claim shape. The first failing
		// step decides the reported kind.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	return v.key, nil
}

// VerifyAccess parses and cryptographically verifies an access token, then
// rebuilds the principal snapshot from its claims. No store or database
// lookup happens here; an access token is valid purely by signature and
// expiry.
func (v *Verifier) VerifyAccess(raw string) (Principal, error) {
	var claims AccessClaims
	if _, err := v.parser.ParseWithClaims(raw, &claims, v.keyFunc); err != nil {
		return Principal{}, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return Principal{}, ErrInvalidToken
	}
	if err := checkExpiry(claims.ExpiresAt); err != nil {
		return Principal{}, err
	}
	if claims.Member == nil {
		return Principal{}, ErrMissingClaim
	}
	m := claims.Member
	if m.ID <= 0 || m.Role == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		ID:       m.ID,
		Email:    m.Email,
		Nickname: m.Nickname,
		Role:     m.Role,
	}, nil
}

// ExtractMemberID pulls the subject out of a refresh token. On
// ErrTokenExpired the id is still returned when the subject is well-formed,
// so cleanup paths (sign-out) can locate the session record of an expired
// token. All other failures return a zero id.
func (v *Verifier) ExtractMemberID(raw string) (int64, error) {
	var claims RefreshClaims
	if _, err := v.parser.ParseWithClaims(raw, &claims, v.keyFunc); err != nil {
		return 0, ErrInvalidToken
	}
	// Expiry outranks claim-shape problems, matching the access-token order.
	expErr := checkExpiry(claims.ExpiresAt)
	if claims.Subject == "" {
		if expErr != nil {
			return 0, expErr
		}
		return 0, ErrMissingClaim
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		if expErr != nil {
			return 0, expErr
		}
		return 0, ErrInvalidToken
	}
	return id, expErr
}

func checkExpiry(exp *jwt.NumericDate) error {
	if exp == nil {
		return ErrInvalidToken
	}
	if time.Now().UTC().After(exp.Time) {
		return ErrTokenExpired
	}
	return nil
}
