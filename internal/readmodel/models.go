package readmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// Read store collections
const (
	CollectionOrders    = "orders"
	CollectionSales     = "sales"
	CollectionInventory = "inventory"
	CollectionShifts    = "shifts"
	CollectionCustomers = "customers"
)

// SalesReportID is the single key of the sales collection.
const SalesReportID = "summary"

// OrderSummaryReadModel is the list view of an order
type OrderSummaryReadModel struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	StaffID       string          `json:"staff_id,omitempty"`
	PlacedAt      time.Time       `json:"placed_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SalesReportReadModel is the channel revenue split shown on the staff
// dashboard. Revenue counts every order regardless of status.
type SalesReportReadModel struct {
	POSRevenue       decimal.Decimal `json:"pos_revenue"`
	OnlineRevenue    decimal.Decimal `json:"online_revenue"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	OrderCount       int             `json:"order_count"`
	POSOrderCount    int             `json:"pos_order_count"`
	OnlineOrderCount int             `json:"online_order_count"`
	ActiveOrders     int             `json:"active_orders"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InventoryReadModel is the last known stock level of a product
type InventoryReadModel struct {
	ProductID   string    `json:"product_id"`
	Stock       int       `json:"stock"`
	LowStock    bool      `json:"low_stock"`
	LastOrderID string    `json:"last_order_id,omitempty"`
	Oversold    int       `json:"oversold"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShiftReadModel is the shift history row
type ShiftReadModel struct {
	ID         string          `json:"id"`
	StaffID    string          `json:"staff_id"`
	Status     string          `json:"status"`
	TotalSales decimal.Decimal `json:"total_sales"`
	SaleCount  int             `json:"sale_count"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
}

// CustomerActivityReadModel aggregates a member's activity
type CustomerActivityReadModel struct {
	UserID            string          `json:"user_id"`
	OrderCount        int             `json:"order_count"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	NotificationCount int             `json:"notification_count"`
	LastLoginAt       *time.Time      `json:"last_login_at,omitempty"`
}
