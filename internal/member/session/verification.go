package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Email verification state also lives in Redis: a pending code under
// "EV:{email}" and, once confirmed, a flag under "EVOK:{email}". Both are
// TTL-bound so abandoned sign-ups clean themselves up.
const (
	pendingCodeTTL  = 10 * time.Minute
	confirmedTTL    = time.Hour
	pendingKeyFmt   = "EV:%s"
	confirmedKeyFmt = "EVOK:%s"
)

// PutVerificationCode stores a fresh code for the email, replacing any
// pending one.
func (s *Store) PutVerificationCode(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := fmt.Sprintf(pendingKeyFmt, email)
	if err := s.rdb.Set(ctx, key, code, pendingCodeTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ConfirmVerification checks the pending code and, on match, consumes it
// and marks the email as confirmed for the sign-up window. Returns false
// when the code is wrong or nothing is pending.
func (s *Store) ConfirmVerification(ctx context.Context, email, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.rdb.Get(ctx, fmt.Sprintf(pendingKeyFmt, email)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if stored != code {
		return false, nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, fmt.Sprintf(pendingKeyFmt, email))
	pipe.Set(ctx, fmt.Sprintf(confirmedKeyFmt, email), "1", confirmedTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

// IsVerified reports whether the email holds a live confirmed flag.
func (s *Store) IsVerified(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.rdb.Get(ctx, fmt.Sprintf(confirmedKeyFmt, email)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}
