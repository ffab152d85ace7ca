package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/venue-booking/internal/model"
)

// UserRepo mirrors the users table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, password_hash, role, enabled, created_at, updated_at`

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Enabled,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u (PasswordHash already set) and fills ID and timestamps.
// Unique violations become model.ErrUsernameTaken or model.ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, enabled) VALUES (?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.Role, u.Enabled)
	if err != nil {
		if msg, ok := duplicateKey(err); ok {
			if strings.Contains(msg, "uq_users_email") {
				return model.ErrEmailTaken
			}
			return model.ErrUsernameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, notFound(err, model.ErrUserNotFound)
	}
	return u, nil
}

// GetByLogin fetches a user whose username or normalised email equals login.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? OR email=? LIMIT 1",
		login, strings.ToLower(login)))
	if err != nil {
		return nil, notFound(err, model.ErrUserNotFound)
	}
	return u, nil
}

// ListByRole returns users of role filtered by their enabled flag, oldest
// first.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role, enabled bool) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role=? AND enabled=? ORDER BY created_at ASC, id ASC",
		role, enabled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// SetEnabled toggles the account's enabled flag.
func (r *UserRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET enabled=? WHERE id=?", enabled, id)
	return err
}

// Delete removes the account.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// CountByRole counts users with the given role and enabled flag.
func (r *UserRepo) CountByRole(ctx context.Context, role model.Role, enabled bool) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role=? AND enabled=?", role, enabled).Scan(&n)
	return n, err
}
