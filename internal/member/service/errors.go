package service

import "errors"

var (
	// ErrAuthenticationFailed is returned for both unknown-email and
	// wrong-password sign-ins. One error for both on purpose: a
	// distinguishable message would let callers enumerate accounts.
	ErrAuthenticationFailed = errors.New("service: authentication failed")

	// ErrSessionNotFound: the refresh token is structurally valid but no
	// live session record exists (expired by TTL, signed out, or never
	// signed in). The client should re-authenticate.
	ErrSessionNotFound = errors.New("service: session not found")

	// ErrSessionConflict: a live session exists but holds a different
	// refresh token — the presented one was superseded by a newer sign-in.
	// Not necessarily forged; same remedy as ErrSessionNotFound.
	ErrSessionConflict = errors.New("service: session superseded")

	// ErrDuplicateEmail / ErrDuplicateNickname reject sign-ups that collide
	// with existing members.
	ErrDuplicateEmail    = errors.New("service: email already registered")
	ErrDuplicateNickname = errors.New("service: nickname already taken")

	// ErrEmailNotVerified: sign-up attempted without a confirmed
	// verification code.
	ErrEmailNotVerified = errors.New("service: email not verified")

	// ErrVerificationFailed: the presented verification code is wrong or
	// nothing is pending for the email.
	ErrVerificationFailed = errors.New("service: verification failed")
)
