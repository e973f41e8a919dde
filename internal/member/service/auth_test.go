package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/lanternworks/memberauth/internal/member/domain"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/internal/member/store"
	"github.com/lanternworks/memberauth/internal/member/store/drivers/sqlite"
	"github.com/lanternworks/memberauth/pkg/cryptox"
	"github.com/lanternworks/memberauth/pkg/jwtx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	auth     *AuthService
	store    store.Store
	sessions *session.Store
	redis    *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// A named shared-cache in-memory database so every pooled connection
	// sees the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewStore(rdb, time.Second)

	signer, err := jwtx.NewSigner(testSecret, "member-auth")
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifier(testSecret, "member-auth")
	require.NoError(t, err)

	return &fixture{
		auth: &AuthService{
			Store:      st,
			Sessions:   sessions,
			Signer:     signer,
			Verifier:   verifier,
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 14 * 24 * time.Hour,
		},
		store:    st,
		sessions: sessions,
		redis:    mr,
	}
}

func (f *fixture) seedMember(t *testing.T, email, nickname, password string) int64 {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id, err := f.store.Members().Create(context.Background(), domain.Member{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		ProfileImg:   defaultProfileImg,
	})
	require.NoError(t, err)
	return id
}

func TestSignInIssuesTokensAndStoresSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)

	// The access token round-trips into the member snapshot.
	principal, err := f.auth.Verifier.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, id, principal.ID)
	require.Equal(t, "kim@example.com", principal.Email)
	require.Equal(t, "kim", principal.Nickname)
	require.Equal(t, "USER", principal.Role)

	// The refresh token is the sole value under the session key.
	stored, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored)
}

func TestSignInFailsUniformly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := f.auth.SignIn(ctx, "nobody@example.com", "whatever")
	require.ErrorIs(t, unknownErr, ErrAuthenticationFailed)

	_, wrongPwErr := f.auth.SignIn(ctx, "kim@example.com", "wrong-password")
	require.ErrorIs(t, wrongPwErr, ErrAuthenticationFailed)

	require.Equal(t, unknownErr.Error(), wrongPwErr.Error())
}

func TestRefreshIsIdempotentOnTheStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	a1, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	// Tokens issued in different seconds differ; fake a tick to avoid an
	// identical iat.
	time.Sleep(1100 * time.Millisecond)
	a2, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	require.NotEqual(t, a1, a2)
	for _, access := range []string{a1, a2} {
		principal, err := f.auth.Verifier.VerifyAccess(access)
		require.NoError(t, err)
		require.Equal(t, id, principal.ID)
	}

	// No rotation: the stored refresh token is untouched.
	stored, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored)
}

func TestSecondSignInSupersedesFirstSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	first, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond) // distinct iat so the tokens differ
	second, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The overwritten token is superseded, not "not found".
	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrSessionConflict)

	// The newest token still works.
	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestSignOutThenRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	removed, err := f.auth.SignOut(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, removed)

	// Second sign-out is an idempotent no-op.
	removed, err = f.auth.SignOut(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.False(t, removed)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshAfterTTLExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	// The store entry expires even though the token's own exp is later.
	f.redis.FastForward(15 * 24 * time.Hour)

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	tampered := pair.RefreshToken[:len(pair.RefreshToken)-1] + "x"
	_, err = f.auth.Refresh(ctx, tampered)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	_, err = f.auth.Refresh(ctx, "not a token")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestStoreOutageSurfacesAsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	f.redis.Close()

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, session.ErrUnavailable)

	_, err = f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.ErrorIs(t, err, session.ErrUnavailable)
}

// TestFullLifecycleScenario walks the whole path: sign-in, refresh, sign
// out, refresh again.
func TestFullLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	id := f.seedMember(t, "kim@example.com", "kim", "hunter2hunter2")

	pair, err := f.auth.SignIn(ctx, "kim@example.com", "hunter2hunter2")
	require.NoError(t, err)

	key := fmt.Sprintf("RT:%d", id)
	require.True(t, f.redis.Exists(key))

	a2, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, a2)

	stored, err := f.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored)

	removed, err := f.auth.SignOut(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, removed)
	require.False(t, f.redis.Exists(key))

	_, err = f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
