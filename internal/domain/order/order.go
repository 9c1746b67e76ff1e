package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domcart "example.com/food-storefront/internal/domain/cart"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
)

// lifecycle order; a status may only move to a later one
var statusRank = map[Status]int{
	StatusPending:        0,
	StatusPreparing:      1,
	StatusOutForDelivery: 2,
	StatusDelivered:      3,
}

func (s Status) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) CanAdvanceTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

const AddressNotSpecified = "Not specified"

var DefaultDeliveryFee = decimal.NewFromInt(49)

// DeliveryFee returns fee for a non-empty cart and zero otherwise.
func DeliveryFee(fee decimal.Decimal, cartNonEmpty bool) decimal.Decimal {
	if !cartNonEmpty {
		return decimal.Zero
	}
	return fee
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []domcart.LineItem
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	DeliveryAddress string
	Status          Status
	CreatedAt       time.Time
}

func (o *Order) ItemCount() int64 {
	var n int64
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ShortID is the prefix shown to customers on the tracking page.
func (o *Order) ShortID() string {
	return o.ID.String()[:8]
}

type Step struct {
	Label     string
	Completed bool
	At        *time.Time
}

func Progress(o *Order) []Step {
	placed := o.CreatedAt
	rank := statusRank[o.Status]
	return []Step{
		{Label: "Order Placed", Completed: true, At: &placed},
		{Label: "Preparing", Completed: rank >= statusRank[StatusPreparing]},
		{Label: "Out for Delivery", Completed: rank >= statusRank[StatusOutForDelivery]},
		{Label: "Delivered", Completed: rank >= statusRank[StatusDelivered]},
	}
}
