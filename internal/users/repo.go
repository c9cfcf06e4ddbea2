package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/auth"
	"github.com/runtiger2024/buy1688-sub000/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

const userColumns = `id, email, password_hash, name, role, is_active, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.IsActive, &u.CreatedAt); err != nil {
		return User{}, err
	}
	u.Role = auth.Role(role)
	return u, nil
}

func (r *Repo) Create(ctx context.Context, u User) (User, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO users(email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.Email, u.PasswordHash, u.Name, string(u.Role), u.IsActive)
	created, err := scanUser(row)
	if postgres.IsUniqueViolation(err) {
		return User{}, apperr.Conflict("email %s is already registered", u.Email)
	}
	return created, err
}

func (r *Repo) ByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user %s not found", email)
	}
	return u, err
}

func (r *Repo) ByID(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user %d not found", id)
	}
	return u, err
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, id int64, p Patch) (User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Role != nil {
		add("role", string(*p.Role))
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	args = append(args, id)
	u, err := scanUser(r.DB.QueryRow(ctx,
		fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns, strings.Join(sets, ", "), len(args)),
		args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user %d not found", id)
	}
	return u, err
}

// IsActiveStaff reports whether id is an active admin or operator.
func (r *Repo) IsActiveStaff(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_active AND role IN ('admin', 'operator'))`, id).Scan(&ok)
	return ok, err
}
