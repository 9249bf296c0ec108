package query

import (
	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/pricing"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/notification"
	"github.com/example/nova-commerce/internal/readmodel"
)

type OrderSummaryReadModel = readmodel.OrderSummaryReadModel
type SalesReportReadModel = readmodel.SalesReportReadModel
type InventoryReadModel = readmodel.InventoryReadModel
type ShiftReadModel = readmodel.ShiftReadModel
type CustomerActivityReadModel = readmodel.CustomerActivityReadModel

// CartView is a cart with its current price breakdown.
type CartView struct {
	ID      string            `json:"id"`
	OwnerID string            `json:"owner_id"`
	Lines   []cart.Line       `json:"lines"`
	Count   int               `json:"count"`
	Coupon  *coupon.Coupon    `json:"coupon,omitempty"`
	Quote   pricing.Breakdown `json:"quote"`
}

// InboxView lists a user's notifications, newest first.
type InboxView struct {
	Notifications []notification.Notification `json:"notifications"`
	Unread        int                         `json:"unread"`
}

// CustomerView joins a customer account with its activity.
type CustomerView struct {
	user.Account
	Activity CustomerActivityReadModel `json:"activity"`
}
