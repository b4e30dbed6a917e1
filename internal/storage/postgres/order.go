package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trustmart/order-service/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line items
// live in a child table and are replaced wholesale on update; concurrent
// updates to the same order serialize on the orders row lock.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order together with its line items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, created_at, status, total_price, owner_id, owner_name)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.CreatedAt, string(o.Status), o.TotalPrice, o.OwnerID, o.OwnerName,
	)
	if err != nil {
		return errors.Wrapf(err, "insert order %q", o.ID)
	}

	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

// Get returns a single order with its line items, or order.ErrNotFound.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, created_at, status, total_price, owner_id, owner_name
		 FROM orders WHERE id = $1`, id)

	var o order.Order
	var status string
	err := row.Scan(&o.ID, &o.CreatedAt, &status, &o.TotalPrice, &o.OwnerID, &o.OwnerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	o.Status = order.Status(status)

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	return r.query(ctx,
		`SELECT id, created_at, status, total_price, owner_id, owner_name
		 FROM orders ORDER BY created_at DESC`)
}

// ListByStatus returns all orders currently in the given status.
func (r *OrderRepository) ListByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	return r.query(ctx,
		`SELECT id, created_at, status, total_price, owner_id, owner_name
		 FROM orders WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

// ListByOwner returns all orders owned by the given user.
func (r *OrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	return r.query(ctx,
		`SELECT id, created_at, status, total_price, owner_id, owner_name
		 FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

// ListByOwnerAndStatus returns the given user's orders in the given status.
func (r *OrderRepository) ListByOwnerAndStatus(ctx context.Context, ownerID string, status order.Status) ([]order.Order, error) {
	return r.query(ctx,
		`SELECT id, created_at, status, total_price, owner_id, owner_name
		 FROM orders WHERE owner_id = $1 AND status = $2 ORDER BY created_at DESC`,
		ownerID, string(status))
}

// Update persists the order's status, total, and replaced line items in one
// transaction. The UPDATE takes the row lock that serializes concurrent
// mutations of the same order.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, total_price = $3 WHERE id = $1`,
		o.ID, string(o.Status), o.TotalPrice,
	)
	if err != nil {
		return errors.Wrapf(err, "update order %q", o.ID)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return errors.Wrapf(err, "delete items of order %q", o.ID)
	}
	if err := insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

// Delete removes the order; line items go with it via ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %q", id)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ExistsByIDAndOwner reports whether an order with the given ID belongs to the
// given owner.
func (r *OrderRepository) ExistsByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1 AND owner_id = $2)`,
		id, ownerID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrapf(err, "check owner of order %q", id)
	}
	return exists, nil
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var out []order.Order
	var ids []string
	for rows.Next() {
		var o order.Order
		var status string
		if err := rows.Scan(&o.ID, &o.CreatedAt, &status, &o.TotalPrice, &o.OwnerID, &o.OwnerName); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.Status = order.Status(status)
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]order.LineItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, quantity, unit_price
		 FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, errors.Wrap(err, "load order items")
	}
	defer rows.Close()

	items := make(map[string][]order.LineItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it order.LineItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, errors.Wrap(rows.Err(), "iterate order items")
}

func insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []order.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, it.ProductID, it.Quantity, it.UnitPrice,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "insert items of order %q", orderID)
	}
	return nil
}
