package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/postgres"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	c := Category{Name: in.Name, Description: in.Description}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories(name, description) VALUES ($1, $2)
		RETURNING id, created_at`, in.Name, in.Description).Scan(&c.ID, &c.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return Category{}, apperr.Conflict("category %q already exists", in.Name)
	}
	return c, err
}

func (r *Repo) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	c := Category{ID: id, Name: in.Name, Description: in.Description}
	err := r.DB.QueryRow(ctx, `
		UPDATE categories SET name = $2, description = $3 WHERE id = $1
		RETURNING created_at`, id, in.Name, in.Description).Scan(&c.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Category{}, apperr.NotFound("category %d not found", id)
	case postgres.IsUniqueViolation(err):
		return Category{}, apperr.Conflict("category %q already exists", in.Name)
	}
	return c, err
}

func (r *Repo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category %d not found", id)
	}
	return nil
}

const productColumns = `id, name, description, image_url, category_id, price, cost_cny, is_archived, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.CategoryID,
		&p.Price, &p.CostCNY, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Products(ctx context.Context, f ProductFilter) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE ($1::bigint IS NULL OR category_id = $1)
		  AND ($2 OR NOT is_archived)
		ORDER BY id DESC`, f.CategoryID, f.IncludeArchived)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) Product(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("product %d not found", id)
	}
	return p, err
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products(name, description, image_url, category_id, price, cost_cny)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		in.Name, in.Description, in.ImageURL, in.CategoryID, in.Price, in.CostCNY))
	if postgres.IsForeignKeyViolation(err) {
		return Product{}, apperr.Validation("category %d does not exist", *in.CategoryID)
	}
	return p, err
}

func (r *Repo) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, image_url = $4, category_id = $5, price = $6, cost_cny = $7,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, in.Name, in.Description, in.ImageURL, in.CategoryID, in.Price, in.CostCNY))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Product{}, apperr.NotFound("product %d not found", id)
	case postgres.IsForeignKeyViolation(err):
		return Product{}, apperr.Validation("category %d does not exist", *in.CategoryID)
	}
	return p, err
}

func (r *Repo) SetArchived(ctx context.Context, id int64, archived bool) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET is_archived = $2, updated_at = now() WHERE id = $1
		RETURNING `+productColumns, id, archived))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("product %d not found", id)
	}
	return p, err
}

func (r *Repo) ProductsByID(ctx context.Context, ids []int64) (map[int64]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}
