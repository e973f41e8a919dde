package service

import (
	"context"

	"github.com/lanternworks/memberauth/internal/member/domain"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/internal/member/store"
	"github.com/lanternworks/memberauth/pkg/cryptox"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

const defaultProfileImg = "/images/default-profile.png"

// SignUpService registers new members. It sits outside the token core but
// feeds it: everything it writes is what SignIn later reads.
type SignUpService struct {
	Store    store.Store
	Sessions *session.Store

	// RequireVerifiedEmail gates registration on a confirmed verification
	// code. Off in tests and dev setups without a mailer.
	RequireVerifiedEmail bool
}

type SignUpRequest struct {
	Email    string
	Nickname string
	Password string
}

// SignUp validates uniqueness, hashes the password, and inserts the member
// with the default USER role and profile image. Returns the new member id.
func (s *SignUpService) SignUp(ctx context.Context, req SignUpRequest) (int64, error) {
	l := slogx.FromContext(ctx)

	if s.RequireVerifiedEmail {
		verified, err := s.Sessions.IsVerified(ctx, req.Email)
		if err != nil {
			return 0, err
		}
		if !verified {
			return 0, ErrEmailNotVerified
		}
	}

	taken, err := s.Store.Members().EmailTaken(ctx, req.Email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateEmail
	}

	taken, err = s.Store.Members().NicknameTaken(ctx, req.Nickname)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateNickname
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.Store.Members().Create(ctx, domain.Member{
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		ProfileImg:   defaultProfileImg,
	})
	if err != nil {
		return 0, err
	}

	l.Info("member registered", "member_id", id)
	return id, nil
}
