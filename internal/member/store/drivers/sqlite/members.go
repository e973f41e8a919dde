package sqlite

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
		`SELECT `+memberColumns+` FROM members WHERE id = ? AND is_deleted = 0`, id)
	return scanMember(row)
}

func (r *membersRepo) GetActiveByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = ? AND is_deleted = 0`, email)
	return scanMember(row)
}

func (r *membersRepo) Create(ctx context.Context, m domain.Member) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (email, nickname, password_hash, role, profile_img, is_deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		m.Email, m.Nickname, m.PasswordHash, string(m.Role), m.ProfileImg, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *membersRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM members WHERE email = ?`, email).Scan(&n)
	return n > 0, err
}

func (r *membersRepo) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM members WHERE nickname = ?`, nickname).Scan(&n)
	return n > 0, err
}

func scanMember(row *sql.Row) (domain.Member, error) {
	var m domain.Member
	var role string
	var deleted int
	err := row.Scan(&m.ID, &m.Email, &m.Nickname, &m.PasswordHash, &role,
		&m.ProfileImg, &deleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}

	m.Role, err = domain.ParseRole(role)
	if err != nil {
		return domain.Member{}, err
	}
	m.Deleted = deleted != 0
	return m, nil
}
