package store

import (
	"context"
	"errors"

	"github.com/lanternworks/memberauth/internal/member/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. The auth core only reads member records; all
// writes happen through registration.
type Store interface {
	Members() Members

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Members interface {
	// GetActiveByID returns a non-deleted member by primary key.
	GetActiveByID(ctx context.Context, id int64) (domain.Member, error)

	// GetActiveByEmail is the sign-in lookup: email match and not
	// soft-deleted.
	GetActiveByEmail(ctx context.Context, email string) (domain.Member, error)

	// Create inserts a new member and returns the generated id.
	Create(ctx context.Context, m domain.Member) (int64, error)

	// EmailTaken reports whether any member (deleted or not) holds the
	// email. Deleted members keep their email reserved.
	EmailTaken(ctx context.Context, email string) (bool, error)

	// NicknameTaken reports whether any member holds the nickname.
	NicknameTaken(ctx context.Context, nickname string) (bool, error)
}
