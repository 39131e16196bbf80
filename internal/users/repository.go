package users

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saddlefit/oms/internal/platform/db"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, email, full_name, role, is_active, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u    User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &role, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	u.Role, _ = rbac.ParseRole(role)
	return u, nil
}

// ListUsers returns a page of users and the total match count.
func (r *Repository) ListUsers(ctx context.Context, f ListFilters) ([]User, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (username ILIKE $` + n + ` OR full_name ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}
	if f.Role != "" {
		args = append(args, string(f.Role))
		where += ` AND role = $` + strconv.Itoa(len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY username`
	if f.Limit > 0 {
		args = append(args, f.Limit, shared.Offset(f.Page, f.Limit))
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// GetUser loads one user.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, db.MapError(err)
}

// CreateUser inserts a new account.
func (r *Repository) CreateUser(ctx context.Context, u User, passwordHash string) (User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `INSERT INTO users (username, email, full_name, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE) RETURNING `+userColumns,
		u.Username, u.Email, u.FullName, string(u.Role), passwordHash))
	return created, db.MapError(err)
}

// UpdateUser edits profile fields.
func (r *Repository) UpdateUser(ctx context.Context, id int64, u User) (User, error) {
	updated, err := scanUser(r.pool.QueryRow(ctx, `UPDATE users SET email = $1, full_name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4 RETURNING `+userColumns, u.Email, u.FullName, u.IsActive, id))
	return updated, db.MapError(err)
}

// SetRole assigns role to the user.
func (r *Repository) SetRole(ctx context.Context, id int64, role rbac.Role) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, string(role), id))
}

// SetPasswordHash replaces the stored hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id))
}

// DeleteUser removes the account.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	return db.ExpectAffected(r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id))
}

var _ RepositoryPort = (*Repository)(nil)
