package menu

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
}
