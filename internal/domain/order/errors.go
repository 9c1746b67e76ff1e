package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status cannot move backwards")
	ErrStatusConflict    = errors.New("order status was changed by another update")
	ErrAuthRequired      = errors.New("sign in required")
	ErrCheckoutFailed    = errors.New("failed to place order")
	ErrEmptyCart         = errors.New("cart is empty")
)
