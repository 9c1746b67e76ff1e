package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domcart "example.com/food-storefront/internal/domain/cart"
	domorder "example.com/food-storefront/internal/domain/order"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderSelect = `
    SELECT id, user_id, items, subtotal::text, delivery_fee::text, total_amount::text,
           delivery_address, status, created_at
    FROM orders`

func (r *OrderRepository) Insert(ctx context.Context, o *domorder.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
        INSERT INTO orders (id, user_id, items, subtotal, delivery_fee, total_amount, delivery_address, status, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9)
    `, o.ID, o.UserID, items, o.Subtotal.String(), o.DeliveryFee.String(), o.TotalAmount.String(),
		o.DeliveryAddress, string(o.Status), o.CreatedAt)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domorder.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, orderSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error) {
	rows, err := r.pool.Query(ctx, orderSelect+`
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `, userID, limit)
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
	tag, err := r.pool.Exec(ctx, `
        UPDATE orders SET status = $1 WHERE id = $2 AND status = $3
    `, string(to), id, string(from))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, domorder.ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

func scanOrder(row pgx.Row) (*domorder.Order, error) {
	var (
		o                    domorder.Order
		items                []byte
		subtotal, fee, total string
		status               string
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &subtotal, &fee, &total,
		&o.DeliveryAddress, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if o.Subtotal, err = parseNumeric(subtotal); err != nil {
		return nil, err
	}
	if o.DeliveryFee, err = parseNumeric(fee); err != nil {
		return nil, err
	}
	if o.TotalAmount, err = parseNumeric(total); err != nil {
		return nil, err
	}
	o.Status = domorder.Status(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if o.Items == nil {
		o.Items = []domcart.LineItem{}
	}
	return &o, nil
}
