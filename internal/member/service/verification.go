package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lanternworks/memberauth/internal/member/session"
	"github.com/lanternworks/memberauth/pkg/slogx"
)

// Mailer delivers verification codes. The real implementation lives outside
// this service; dev setups use LogMailer.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogMailer logs codes instead of sending them. Dev only.
type LogMailer struct{}

func (LogMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	slogx.FromContext(ctx).Info("verification code issued (dev mailer)", "email", email, "code", code)
	return nil
}

// VerificationService hands out and confirms email verification codes ahead
// of sign-up.
type VerificationService struct {
	Sessions *session.Store
	Mailer   Mailer
}

// SendCode issues a fresh code for the email, replacing any pending one,
// and mails it.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	code := uuid.NewString()
	if err := s.Sessions.PutVerificationCode(ctx, email, code); err != nil {
		return err
	}
	return s.Mailer.SendVerificationCode(ctx, email, code)
}

// Confirm checks the code and marks the email verified for the sign-up
// window.
func (s *VerificationService) Confirm(ctx context.Context, email, code string) error {
	ok, err := s.Sessions.ConfirmVerification(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVerificationFailed
	}
	slogx.FromContext(ctx).Info("email verified", "email", email)
	return nil
}
