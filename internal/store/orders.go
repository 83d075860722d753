package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/order"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Orders persists placed orders. Rows are snapshots: nothing here references
// the pizzas table.
type Orders struct {
	db DBTX
}

func NewOrders(db DBTX) *Orders {
	return &Orders{db: db}
}

const orderColumns = `id, pizza, size, quantity, amount, table_number, status, waiter_id, image, created_at, updated_at`

func scanOrder(row pgx.Row) (order.Order, error) {
	var o order.Order
	var amount pgtype.Numeric
	err := row.Scan(&o.ID, &o.Pizza, &o.Size, &o.Quantity, &amount,
		&o.TableNumber, &o.Status, &o.WaiterID, &o.Image, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return order.Order{}, err
	}
	o.Amount = numericToDecimal(amount)
	return o, nil
}

// CreateOrder inserts a snapshot and returns the stored row.
func (s *Orders) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	const q = `
		INSERT INTO orders (pizza, size, quantity, amount, table_number, status, waiter_id, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + orderColumns + `
	`
	return scanOrder(s.db.QueryRow(ctx, q,
		o.Pizza, o.Size, o.Quantity, decimalToNumeric(o.Amount),
		o.TableNumber, o.Status, o.WaiterID, o.Image))
}

// Get returns one order by id. Returns pgx.ErrNoRows when absent.
func (s *Orders) Get(ctx context.Context, id uuid.UUID) (order.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(s.db.QueryRow(ctx, q, id))
}

// ListByWaiter returns the orders a waiter placed, newest first.
func (s *Orders) ListByWaiter(ctx context.Context, waiterID uuid.UUID) ([]order.Order, error) {
	const q = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE waiter_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, q, waiterID)
}

// List returns every order, newest first. Admin/kitchen view.
func (s *Orders) List(ctx context.Context) ([]order.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return s.list(ctx, q)
}

type UpdateOrderStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (s *Orders) UpdateStatus(ctx context.Context, arg UpdateOrderStatusParams) (order.Order, error) {
	const q = `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns + `
	`
	return scanOrder(s.db.QueryRow(ctx, q, arg.ID, arg.Status))
}

func (s *Orders) list(ctx context.Context, q string, args ...any) ([]order.Order, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
