package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	domprofile "example.com/food-storefront/internal/domain/profile"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domprofile.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT user_id, full_name, email, phone, address, updated_at
        FROM profiles WHERE user_id = ?
    `, userID.String())

	var (
		p              domprofile.Profile
		phone, address sql.NullString
	)
	if err := row.Scan(&p.UserID, &p.FullName, &p.Email, &phone, &address, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domprofile.ErrProfileNotFound
		}
		return nil, err
	}
	p.Phone = phone.String
	p.Address = address.String
	return &p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domprofile.Profile) (*domprofile.Profile, error) {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO profiles (user_id, full_name, email, phone, address, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            full_name = VALUES(full_name),
            email = VALUES(email),
            phone = VALUES(phone),
            address = VALUES(address),
            updated_at = VALUES(updated_at)
    `, p.UserID.String(), p.FullName, p.Email, nullIfEmpty(p.Phone), nullIfEmpty(p.Address), p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
