package domain

import (
	"fmt"
	"time"
)

// Role is the single role a member holds. Multi-role is a schema change we
// are not taking on yet.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
	RoleGuest Role = "GUEST"
)

// ParseRole validates a role string coming off the wire or out of storage.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUser, RoleGuest:
		return Role(s), nil
	}
	return "", fmt.Errorf("domain: unknown role %q", s)
}

// Member is the stored member record. Password hashes never leave the
// service layer; deletion is a soft flag so sign-in can filter on it.
type Member struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string // argon2id PHC encoded
	Role         Role
	ProfileImg   string
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the snapshot of a member embedded into access tokens at
// issue time. It may go stale relative to the member record until the next
// re-issue; that is accepted.
type Principal struct {
	ID       int64
	Email    string
	Nickname string
	Role     Role
}

// Snapshot captures the token-facing view of a member.
func (m Member) Snapshot() Principal {
	return Principal{ID: m.ID, Email: m.Email, Nickname: m.Nickname, Role: m.Role}
}
