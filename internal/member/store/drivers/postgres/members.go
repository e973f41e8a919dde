package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lanternworks/memberauth/internal/member/domain"
)

type membersRepo struct {
	db *sql.DB
}

const memberColumns = `id, email, nickname, password_hash, role, profile_img, is_deleted, created_at, updated_at`

func (r *membersRepo) GetActiveByID(ctx context.Context, id int64) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1 AND NOT is_deleted`, id)
	return scanMember(row)
}

func (r *membersRepo) GetActiveByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = $1 AND NOT is_deleted`, email)
	return scanMember(row)
}

func (r *membersRepo) Create(ctx context.Context, m domain.Member) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO members (email, nickname, password_hash, role, profile_img, is_deleted, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, false, $6, $7)
		 RETURNING id`,
		m.Email, m.Nickname, m.PasswordHash, string(m.Role), m.ProfileImg, now, now).Scan(&id)
	return id, err
}

func (r *membersRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE email = $1)`, email).Scan(&taken)
	return taken, err
}

func (r *membersRepo) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE nickname = $1)`, nickname).Scan(&taken)
	return taken, err
}

func scanMember(row *sql.Row) (domain.Member, error) {
	var m domain.Member
	var role string
	err := row.Scan(&m.ID, &m.Email, &m.Nickname, &m.PasswordHash, &role,
		&m.ProfileImg, &m.Deleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}

	m.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.Member{}, err
	}
	return m, nil
}
