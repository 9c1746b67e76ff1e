package mysql

import (
	"context"
	"database/sql"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	dom "example.com/food-storefront/internal/domain/user"
)

// duplicate entry for key
const errDupEntry = 1062

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *dom.User) (*dom.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, full_name, role)
         VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.PasswordHash, u.FullName, string(u.Role),
	)
	if err != nil {
		var myErr *gomysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDupEntry {
			return nil, dom.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*dom.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, full_name, role
        FROM accounts
        WHERE email = ?
    `, email)

	var (
		u    dom.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dom.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = dom.Role(role)
	return &u, nil
}
