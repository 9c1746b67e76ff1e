package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domcart "example.com/food-storefront/internal/domain/cart"
	domorder "example.com/food-storefront/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, items, subtotal, delivery_fee, total_amount, delivery_address, status, created_at`

func (r *OrderRepository) Insert(ctx context.Context, o *domorder.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO orders (`+orderColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, o.ID.String(), o.UserID.String(), items, o.Subtotal, o.DeliveryFee, o.TotalAmount,
		o.DeliveryAddress, string(o.Status), o.CreatedAt)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+orderColumns+`
        FROM orders WHERE id = ?
    `, id.String())

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?
    `, userID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domorder.Status) (*domorder.Order, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = ? WHERE id = ? AND status = ?
    `, string(to), id.String(), string(from))
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domorder.ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var (
		o      domorder.Order
		items  []byte
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Subtotal, &o.DeliveryFee, &o.TotalAmount,
		&o.DeliveryAddress, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = domorder.Status(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []domcart.LineItem{}
	}
	return &o, nil
}
