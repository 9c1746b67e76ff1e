package menu

import "errors"

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrInvalidItem  = errors.New("invalid menu item")
)
