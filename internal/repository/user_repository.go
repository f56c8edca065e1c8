package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jdrivas/gtm/internal/model"
)

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// UserRepo mirrors the 'users' table. Rows are keyed by the identity
// provider's subject claim and upserted on every authenticated access
// so local ids stay stable while names and emails track the provider.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Upsert inserts or refreshes the user for an external subject and
// returns the stored row. The role is written as given; callers derive
// it from token claims, never from client input. A role downgrade via
// claims is honored — the token is the source of truth except for rows
// promoted through GrantRole.
func (r *UserRepo) Upsert(ctx context.Context, subject, email, name, role string) (*model.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, validationf("subject is required")
	}
	const q = `INSERT INTO users (subject, email, name, role)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             email = VALUES(email),
	             name = VALUES(name),
	             role = IF(role = 'admin', role, VALUES(role)),
	             updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, q, subject, email, name, role); err != nil {
		return nil, err
	}
	return r.GetBySubject(ctx, subject)
}

// GetBySubject fetches a user by external subject id.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	const q = `SELECT id, subject, email, name, role, created_at, updated_at
	           FROM users WHERE subject = ? LIMIT 1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, subject).Scan(
		&u.ID, &u.Subject, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by local id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT id, subject, email, name, role, created_at, updated_at
	           FROM users WHERE id = ? LIMIT 1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Subject, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by name for the admin directory.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT id, subject, email, name, role, created_at, updated_at
	           FROM users ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GrantRole sets a user's role by email. This is the explicit admin
// bootstrap (gtm grant-admin): a deliberate, single-row write instead
// of any first-user-wins heuristic. Returns false when no user with
// that email exists yet.
func (r *UserRepo) GrantRole(ctx context.Context, email, role string) (bool, error) {
	if role != model.RoleMember && role != model.RoleAdmin {
		return false, validationf("unknown role %q", role)
	}
	const q = `UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`
	res, err := r.db.ExecContext(ctx, q, role, email)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
