package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	UserID        string          `json:"user_id"`
	Type          Type            `json:"type"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Status        Status          `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	StaffID       string          `json:"staff_id,omitempty"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// OrderStatusChanged carries Forced when a lenient policy let an illegal
// transition through.
type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Type      Type      `json:"type"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Forced    bool      `json:"forced,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}
