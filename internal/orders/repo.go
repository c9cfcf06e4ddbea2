package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, customer_id, customer_email, total_amount, total_cost, status, payment_status,
	payment_method, payment_reference, order_type, share_token, operator_id, warehouse_id, notes,
	domestic_tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerEmail, &o.TotalAmount, &o.TotalCost, &o.Status,
		&o.PaymentStatus, &o.PaymentMethod, &o.PaymentReference, &o.OrderType, &o.ShareToken,
		&o.OperatorID, &o.WarehouseID, &o.Notes, &o.DomesticTrackingNumber, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// Create inserts the order and its items in one transaction; a failing item leaves nothing behind.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(customer_id, customer_email, total_amount, total_cost, status, payment_status,
			payment_method, order_type, share_token, warehouse_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		o.CustomerID, o.CustomerEmail, o.TotalAmount, o.TotalCost, o.Status, o.PaymentStatus,
		o.PaymentMethod, o.OrderType, o.ShareToken, o.WarehouseID, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for i := range o.Items {
		it := &o.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, name, spec, external_url, price, cost_cny, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			o.ID, it.ProductID, it.Name, it.Spec, it.ExternalURL, it.Price, it.CostCNY, it.Quantity,
		).Scan(&it.ID)
		if err != nil {
			return Order{}, fmt.Errorf("insert item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *Repo) GetByShareToken(ctx context.Context, token string) (Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE share_token = $1`, token)
}

func (r *Repo) getOne(ctx context.Context, q string, arg any) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("order not found")
	}
	if err != nil {
		return Order{}, err
	}
	items, err := r.items(ctx, []int64{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *Repo) List(ctx context.Context, f ListFilter) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::bigint IS NULL OR customer_id = $1)
		  AND ($2::bigint IS NULL OR operator_id = $2)
		  AND ($3::text IS NULL OR status = $3)
		  AND ($4::text IS NULL OR payment_status = $4)
		ORDER BY id DESC`,
		f.CustomerID, f.OperatorID, f.Status, f.PaymentStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) items(ctx context.Context, orderIDs []int64) (map[int64][]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT order_id, id, product_id, name, spec, external_url, price, cost_cny, quantity
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var it Item
		if err := rows.Scan(&orderID, &it.ID, &it.ProductID, &it.Name, &it.Spec, &it.ExternalURL,
			&it.Price, &it.CostCNY, &it.Quantity); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

// Update writes only the supplied fields of p.
func (r *Repo) Update(ctx context.Context, id int64, p Patch) (Order, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.PaymentStatus != nil {
		add("payment_status", string(*p.PaymentStatus))
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.OperatorID != nil {
		if *p.OperatorID == 0 {
			add("operator_id", nil)
		} else {
			add("operator_id", *p.OperatorID)
		}
	}
	if p.DomesticTrackingNumber != nil {
		add("domestic_tracking_number", *p.DomesticTrackingNumber)
	}
	if p.PaymentReference != nil {
		add("payment_reference", *p.PaymentReference)
	}
	args = append(args, id)

	tag, err := r.DB.Exec(ctx,
		fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		return Order{}, err
	}
	if tag.RowsAffected() == 0 {
		return Order{}, apperr.NotFound("order %d not found", id)
	}
	return r.Get(ctx, id)
}
