package inventory

import "time"

const (
	EventStockAdded    = "StockAdded"
	EventStockDeducted = "StockDeducted"
)

type StockAdded struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Before    int       `json:"before"`
	After     int       `json:"after"`
	AddedAt   time.Time `json:"added_at"`
}

// StockDeducted records one line of a sale. Oversold is set when the line
// asked for more than was on hand and stock was clamped to zero.
type StockDeducted struct {
	ProductID  string    `json:"product_id"`
	OrderID    string    `json:"order_id"`
	Quantity   int       `json:"quantity"`
	Before     int       `json:"before"`
	After      int       `json:"after"`
	Oversold   bool      `json:"oversold,omitempty"`
	DeductedAt time.Time `json:"deducted_at"`
}
