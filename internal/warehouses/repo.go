package warehouses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

const columns = `id, name, receiver, phone, address, is_active, created_at`

func scan(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Receiver, &w.Phone, &w.Address, &w.IsActive, &w.CreatedAt)
	return w, err
}

func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Warehouse, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+columns+` FROM warehouses WHERE is_active OR NOT $1 ORDER BY id`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Warehouse
	for rows.Next() {
		w, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Warehouse, error) {
	w, err := scan(r.DB.QueryRow(ctx, `SELECT `+columns+` FROM warehouses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, apperr.NotFound("warehouse %d not found", id)
	}
	return w, err
}

func (r *Repo) Create(ctx context.Context, w Warehouse) (Warehouse, error) {
	return scan(r.DB.QueryRow(ctx, `
		INSERT INTO warehouses(name, receiver, phone, address, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+columns, w.Name, w.Receiver, w.Phone, w.Address, w.IsActive))
}

func (r *Repo) Update(ctx context.Context, w Warehouse) (Warehouse, error) {
	out, err := scan(r.DB.QueryRow(ctx, `
		UPDATE warehouses SET name = $2, receiver = $3, phone = $4, address = $5, is_active = $6
		WHERE id = $1
		RETURNING `+columns, w.ID, w.Name, w.Receiver, w.Phone, w.Address, w.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Warehouse{}, apperr.NotFound("warehouse %d not found", w.ID)
	}
	return out, err
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if postgres.IsForeignKeyViolation(err) {
		return apperr.Conflict("warehouse %d is used by orders; deactivate it instead", id)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("warehouse %d not found", id)
	}
	return nil
}
