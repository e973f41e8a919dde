package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testVerifier(t *testing.T) (*jwtx.Signer, *jwtx.Verifier) {
	t.Helper()

	s, err := jwtx.NewSigner(testSecret, "member-auth")
	require.NoError(t, err)
	v, err := jwtx.NewVerifier(testSecret, "member-auth")
	require.NoError(t, err)
	return s, v
}

// capture records what the inner handler observed.
type capture struct {
	called    bool
	principal jwtx.Principal
	hasPrin   bool
	authErr   error
}

func captureHandler(c *capture) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.principal, c.hasPrin = PrincipalFromContext(r.Context())
		c.authErr = AuthErrorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthnInstallsPrincipal(t *testing.T) {
	t.Parallel()
	signer, verifier := testVerifier(t)

	token, err := signer.IssueAccess(jwtx.Principal{ID: 7, Email: "a@b.c", Nickname: "a", Role: "USER"}, time.Now(), time.Minute)
	require.NoError(t, err)

	var c capture
	h := Authn(verifier)(captureHandler(&c))

	req := httptest.NewRequest(http.MethodGet, "/api/members/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, c.called)
	require.True(t, c.hasPrin)
	require.Equal(t, int64(7), c.principal.ID)
	require.NoError(t, c.authErr)
}

func TestAuthnDoesNotShortCircuit(t *testing.T) {
	t.Parallel()
	_, verifier := testVerifier(t)

	t.Run("no token passes through clean", func(t *testing.T) {
		var c capture
		h := Authn(verifier)(captureHandler(&c))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.True(t, c.called)
		require.False(t, c.hasPrin)
		require.NoError(t, c.authErr)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("bad token passes through with recorded error", func(t *testing.T) {
		var c capture
		h := Authn(verifier)(captureHandler(&c))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		// The filter defers rejection to the gate.
		require.True(t, c.called)
		require.False(t, c.hasPrin)
		require.ErrorIs(t, c.authErr, jwtx.ErrInvalidToken)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func rejectWithStatus(t *testing.T, gotErr *error) RejectFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request, err error) {
		*gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()
	signer, verifier := testVerifier(t)

	t.Run("missing token is rejected at the gate", func(t *testing.T) {
		var gateErr error
		var c capture
		h := Chain(captureHandler(&c), Authn(verifier), RequireAuth(rejectWithStatus(t, &gateErr)))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.False(t, c.called)
		require.ErrorIs(t, gateErr, ErrNoBearerToken)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token surfaces the typed error", func(t *testing.T) {
		token, err := signer.IssueAccess(jwtx.Principal{ID: 1, Role: "USER"}, time.Now().Add(-time.Hour), time.Minute)
		require.NoError(t, err)

		var gateErr error
		var c capture
		h := Chain(captureHandler(&c), Authn(verifier), RequireAuth(rejectWithStatus(t, &gateErr)))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.False(t, c.called)
		require.ErrorIs(t, gateErr, jwtx.ErrTokenExpired)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	signer, verifier := testVerifier(t)

	token, err := signer.IssueAccess(jwtx.Principal{ID: 2, Email: "u@e.c", Nickname: "u", Role: "USER"}, time.Now(), time.Minute)
	require.NoError(t, err)

	var gateErr error
	var c capture
	h := Chain(captureHandler(&c), Authn(verifier), RequireRole(rejectWithStatus(t, &gateErr), "ADMIN"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.False(t, c.called)
	require.ErrorIs(t, gateErr, ErrForbidden)
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	h := RateLimitByIP(RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Different caller, fresh bucket.
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
	req.RemoteAddr = "10.9.9.9:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
