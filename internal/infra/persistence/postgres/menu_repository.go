package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const menuSelect = `
    SELECT id, name, description, price::text, rating, image, category, is_healthy, calories
    FROM menu_items`

func (r *MenuRepository) List(ctx context.Context) ([]*dommenu.Item, error) {
	rows, err := r.pool.Query(ctx, menuSelect+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*dommenu.Item
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*dommenu.Item, error) {
	it, err := scanMenuItem(r.pool.QueryRow(ctx, menuSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dommenu.ErrItemNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *MenuRepository) Upsert(ctx context.Context, it *dommenu.Item) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO menu_items (id, name, description, price, rating, image, category, is_healthy, calories)
        VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
            rating = EXCLUDED.rating, image = EXCLUDED.image, category = EXCLUDED.category,
            is_healthy = EXCLUDED.is_healthy, calories = EXCLUDED.calories
    `, it.ID, it.Name, it.Description, it.Price.String(), it.Rating, it.Image, it.Category, it.IsHealthy, it.Calories)
	return err
}

func scanMenuItem(row pgx.Row) (*dommenu.Item, error) {
	var (
		it    dommenu.Item
		price string
	)
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Rating, &it.Image,
		&it.Category, &it.IsHealthy, &it.Calories); err != nil {
		return nil, err
	}
	p, err := parseNumeric(price)
	if err != nil {
		return nil, err
	}
	it.Price = p
	return &it, nil
}
