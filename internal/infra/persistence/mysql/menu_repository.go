package mysql

import (
	"context"
	"database/sql"
	"errors"

	dommenu "example.com/food-storefront/internal/domain/menu"
)

type MenuRepository struct {
	db *sql.DB
}

func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, name, description, price, rating, image, category, is_healthy, calories`

func (r *MenuRepository) List(ctx context.Context) ([]*dommenu.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+menuColumns+`
        FROM menu_items
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*dommenu.Item
	for rows.Next() {
		var it dommenu.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Rating, &it.Image,
			&it.Category, &it.IsHealthy, &it.Calories); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *MenuRepository) GetByID(ctx context.Context, id int64) (*dommenu.Item, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+menuColumns+`
        FROM menu_items WHERE id = ?
    `, id)

	var it dommenu.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Rating, &it.Image,
		&it.Category, &it.IsHealthy, &it.Calories); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dommenu.ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// Upsert is used when seeding the table from a menu file.
func (r *MenuRepository) Upsert(ctx context.Context, it *dommenu.Item) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO menu_items (`+menuColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            name = VALUES(name), description = VALUES(description), price = VALUES(price),
            rating = VALUES(rating), image = VALUES(image), category = VALUES(category),
            is_healthy = VALUES(is_healthy), calories = VALUES(calories)
    `, it.ID, it.Name, it.Description, it.Price, it.Rating, it.Image, it.Category, it.IsHealthy, it.Calories)
	return err
}
