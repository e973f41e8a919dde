// Package session tracks refresh sessions in Redis. Each principal holds at
// most one live session record: key "RT:{memberID}" mapping to its current
// refresh token string, with a store-enforced TTL equal to the token's
// lifetime. A new sign-in overwrites the record, which silently invalidates
// whatever refresh token was stored before.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoSession: no record under the key. Covers expired-by-TTL,
	// never-signed-in, and signed-out; the store cannot tell them apart.
	ErrNoSession = errors.New("session: no session record")

	// ErrUnavailable: the store itself failed or timed out. Fatal for the
	// request; never retried here.
	ErrUnavailable = errors.New("session: store unavailable")
)

const defaultTimeout = 2 * time.Second

// Store wraps the Redis client with bounded, keyed operations.
type Store struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewStore(rdb *redis.Client, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{rdb: rdb, timeout: timeout}
}

func refreshKey(memberID int64) string {
	return fmt.Sprintf("RT:%d", memberID)
}

// Put stores the refresh token under the member's session key, overwriting
// any prior record and resetting the TTL. Redis SET is atomic, so
// concurrent sign-ins race to last-write-wins with no partial state.
func (s *Store) Put(ctx context.Context, memberID int64, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, refreshKey(memberID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the member's stored refresh token, ErrNoSession when the key
// is absent.
func (s *Store) Get(ctx context.Context, memberID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, refreshKey(memberID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrNoSession
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Ping checks Redis connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the member's session record. The bool reports whether a
// record actually existed, so sign-out can be idempotent.
func (s *Store) Delete(ctx context.Context, memberID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.rdb.Del(ctx, refreshKey(memberID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}
