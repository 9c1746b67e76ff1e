package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domfavorite "example.com/food-storefront/internal/domain/favorite"
)

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

func (r *FavoriteRepository) List(ctx context.Context, userID uuid.UUID) ([]*domfavorite.Favorite, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT user_id, menu_item_id, created_at
        FROM favorites
        WHERE user_id = $1
        ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favorites []*domfavorite.Favorite
	for rows.Next() {
		var f domfavorite.Favorite
		if err := rows.Scan(&f.UserID, &f.MenuItemID, &f.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, &f)
	}
	return favorites, rows.Err()
}

func (r *FavoriteRepository) Add(ctx context.Context, userID uuid.UUID, menuItemID int64) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO favorites (user_id, menu_item_id, created_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id, menu_item_id) DO NOTHING
    `, userID, menuItemID)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID uuid.UUID, menuItemID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND menu_item_id = $2`, userID, menuItemID)
	return err
}
