package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "example.com/food-storefront/internal/domain/user"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO accounts (id, email, password_hash, full_name, role)
        VALUES ($1, $2, $3, $4, $5)
    `, u.ID, u.Email, u.PasswordHash, u.FullName, string(u.Role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	var (
		u    dom.User
		role string
	)
	err := r.pool.QueryRow(ctx, `
        SELECT id, email, password_hash, full_name, role
        FROM accounts WHERE email = $1
    `, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = dom.Role(role)
	return &u, nil
}
