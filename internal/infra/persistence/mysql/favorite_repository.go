package mysql

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	domfavorite "example.com/food-storefront/internal/domain/favorite"
)

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) List(ctx context.Context, userID uuid.UUID) ([]*domfavorite.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT user_id, menu_item_id, created_at
        FROM favorites
        WHERE user_id = ?
        ORDER BY created_at DESC
    `, userID.String())
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
	_, err := r.db.ExecContext(ctx, `
        INSERT IGNORE INTO favorites (user_id, menu_item_id, created_at)
        VALUES (?, ?, UTC_TIMESTAMP(6))
    `, userID.String(), menuItemID)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID uuid.UUID, menuItemID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND menu_item_id = ?`, userID.String(), menuItemID)
	return err
}
