package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newPair(t *testing.T) (*Signer, *Verifier) {
	t.Helper()

	s, err := NewSigner(testSecret, "member-auth")
	require.NoError(t, err)
	v, err := NewVerifier(testSecret, "member-auth")
	require.NoError(t, err)
	return s, v
}

func testPrincipal() Principal {
	return Principal{ID: 42, Email: "kim@example.com", Nickname: "kim", Role: "USER"}
}

func TestNewSignerRejectsWeakConfig(t *testing.T) {
	t.Parallel()

	_, err := NewSigner([]byte("short"), "member-auth")
	require.Error(t, err)

	_, err = NewSigner(testSecret, "")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	token, err := s.IssueAccess(testPrincipal(), time.Now(), time.Minute)
	require.NoError(t, err)

	got, err := v.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, testPrincipal(), got)
}

func TestExpiredAccessTokenReportsExpiredNotInvalid(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	// Issued two minutes ago with a one minute lifetime.
	token, err := s.IssueAccess(testPrincipal(), time.Now().Add(-2*time.Minute), time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyAccess(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.NotErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedSignatureIsInvalid(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	token, err := s.IssueAccess(testPrincipal(), time.Now(), time.Minute)
	require.NoError(t, err)

	tampered := flipLastByte(token)
	_, err = v.VerifyAccess(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)

	refresh, err := s.IssueRefresh(testPrincipal(), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = v.ExtractMemberID(flipLastByte(refresh))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestForgedAndExpiredReportsInvalid(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	// Signature failures must take precedence over expiry.
	token, err := s.IssueAccess(testPrincipal(), time.Now().Add(-2*time.Minute), time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyAccess(flipLastByte(token))
	require.ErrorIs(t, err, ErrInvalidToken)
	require.NotErrorIs(t, err, ErrTokenExpired)
}

func TestMalformedTokensAreInvalid(t *testing.T) {
	t.Parallel()
	_, v := newPair(t)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d", "ey.ey.sig"} {
		_, err := v.VerifyAccess(raw)
		require.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestAccessTokenWithoutSnapshotIsMissingClaim(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	// A refresh token is validly signed by the same key but carries no
	// member claim; pushing it through VerifyAccess must not panic or pass.
	refresh, err := s.IssueRefresh(testPrincipal(), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = v.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrMissingClaim)
}

func TestVerifierRejectsForeignIssuer(t *testing.T) {
	t.Parallel()

	s, err := NewSigner(testSecret, "someone-else")
	require.NoError(t, err)
	_, v := newPair(t)

	token, err := s.IssueAccess(testPrincipal(), time.Now(), time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyAccess(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractMemberID(t *testing.T) {
	t.Parallel()
	s, v := newPair(t)

	t.Run("live token", func(t *testing.T) {
		refresh, err := s.IssueRefresh(testPrincipal(), time.Now(), time.Hour)
		require.NoError(t, err)

		id, err := v.ExtractMemberID(refresh)
		require.NoError(t, err)
		require.Equal(t, int64(42), id)
	})

	t.Run("expired token still yields the id", func(t *testing.T) {
		refresh, err := s.IssueRefresh(testPrincipal(), time.Now().Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)

		id, err := v.ExtractMemberID(refresh)
		require.ErrorIs(t, err, ErrTokenExpired)
		require.Equal(t, int64(42), id)
	})
}

func TestDistinctKeysDoNotCrossVerify(t *testing.T) {
	t.Parallel()

	other, err := NewSigner([]byte(strings.Repeat("x", 32)), "member-auth")
	require.NoError(t, err)
	_, v := newPair(t)

	token, err := other.IssueAccess(testPrincipal(), time.Now(), time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyAccess(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// flipLastByte corrupts the signature segment without breaking base64.
func flipLastByte(token string) string {
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return token[:len(token)-1] + string(replacement)
}
