package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domprofile "example.com/food-storefront/internal/domain/profile"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domprofile.Profile, error) {
	var (
		p              domprofile.Profile
		phone, address *string
	)
	err := r.pool.QueryRow(ctx, `
        SELECT user_id, full_name, email, phone, address, updated_at
        FROM profiles WHERE user_id = $1
    `, userID).Scan(&p.UserID, &p.FullName, &p.Email, &phone, &address, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domprofile.ErrProfileNotFound
		}
		return nil, err
	}
	if phone != nil {
		p.Phone = *phone
	}
	if address != nil {
		p.Address = *address
	}
	return &p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domprofile.Profile) (*domprofile.Profile, error) {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO profiles (user_id, full_name, email, phone, address, updated_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
        ON CONFLICT (user_id) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            email = EXCLUDED.email,
            phone = EXCLUDED.phone,
            address = EXCLUDED.address,
            updated_at = EXCLUDED.updated_at
    `, p.UserID, p.FullName, p.Email, p.Phone, p.Address, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
