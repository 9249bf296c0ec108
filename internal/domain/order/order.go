package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/nova-commerce/internal/domain/cart"
)

type Type string

const (
	TypeOnline Type = "online"
	TypePOS    Type = "pos"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileWallet PaymentMethod = "mobile_wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileWallet:
		return true
	}
	return false
}

const (
	GuestUserID   = "guest"
	InStoreUserID = "in-store-guest"
)

// Item is a frozen copy of a cart line at order time.
type Item = cart.Line

// Order is immutable after creation except for Status.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Status        Status          `json:"status"`
	Date          time.Time       `json:"date"`
	Type          Type            `json:"type"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	StaffID       string          `json:"staff_id,omitempty"`
}

func (o Order) Clone() Order {
	out := o
	out.Items = cart.CloneLines(o.Items)
	return out
}

// ItemCount sums item quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
