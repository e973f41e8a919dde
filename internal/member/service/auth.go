package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/lanternworks/memberauth/internal/member/domain"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/internal/member/store"
	"github.com/lanternworks/memberauth/pkg/cryptox"
	"github.com/lanternworks/memberauth/pkg/jwtx"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// AuthService owns the session lifecycle: it is the only writer of session
// records. Token issuance itself has no store side effects, which is why
// the get-then-compare in Refresh doesn't need to be transactional with it.
type AuthService struct {
	Store    store.Store
	Sessions *session.Store
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func principalOf(m domain.Member) jwtx.Principal {
	p := m.Snapshot()
	return jwtx.Principal{ID: p.ID, Email: p.Email, Nickname: p.Nickname, Role: string(p.Role)}
}

// SignIn authenticates the credentials and, on success, transitions the
// member's session slot to ACTIVE: both tokens are issued and the session
// key is unconditionally overwritten with the fresh refresh token. Any
// prior session for the member is implicitly terminated — one active
// session per member, by policy.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	member, err := s.Store.Members().GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("sign-in rejected: unknown or deleted member")
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, member.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("sign-in rejected: wrong password", "member_id", member.ID)
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	now := time.Now().UTC()
	principal := principalOf(member)

	access, err := s.Signer.IssueAccess(principal, now, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Signer.IssueRefresh(principal, now, s.RefreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.Put(ctx, member.ID, refresh, s.RefreshTTL); err != nil {
		return nil, err
	}

	l.Info("sign-in succeeded", "member_id", member.ID)
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// Refresh exchanges a still-valid refresh token for a new access token.
// The presented token must match the stored one byte for byte; the stored
// token and its TTL are left untouched — refresh tokens are reused, not
// rotated. The principal snapshot is re-read from the member store since
// refresh tokens carry none.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := slogx.FromContext(ctx)

	memberID, err := s.Verifier.ExtractMemberID(refreshToken)
	if err != nil {
		return "", err
	}

	stored, err := s.Sessions.Get(ctx, memberID)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			l.Info("refresh rejected: no live session", "member_id", memberID)
			return "", ErrSessionNotFound
		}
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		l.Info("refresh rejected: token superseded by newer sign-in", "member_id", memberID)
		return "", ErrSessionConflict
	}

	member, err := s.Store.Members().GetActiveByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The member vanished (deleted) while the session lived on.
			return "", ErrSessionNotFound
		}
		return "", err
	}

	access, err := s.Signer.IssueAccess(principalOf(member), time.Now().UTC(), s.AccessTTL)
	if err != nil {
		return "", err
	}

	l.Info("access token reissued", "member_id", memberID)
	return access, nil
}

// SignOut deletes the member's session record. An expired-but-well-signed
// refresh token is accepted: the intent is cleanup, and refusing it would
// just leave the record to rot until the TTL fires. Returns whether a
// record was actually removed, so repeated sign-outs are visible no-ops.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) (bool, error) {
	l := slogx.FromContext(ctx)

	memberID, err := s.Verifier.ExtractMemberID(refreshToken)
	if err != nil && !errors.Is(err, jwtx.ErrTokenExpired) {
		return false, err
	}

	removed, err := s.Sessions.Delete(ctx, memberID)
	if err != nil {
		return false, err
	}

	l.Info("sign-out", "member_id", memberID, "removed", removed)
	return removed, nil
}
