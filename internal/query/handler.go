package query

import (
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/pricing"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
	"github.com/example/nova-commerce/internal/readmodel"
)

// CouponLookup reports the coupon applied to a cart owner, if any.
type CouponLookup interface {
	AppliedCoupon(ownerID string) *coupon.Coupon
}

// Sources are the services the Handler reads from.
type Sources struct {
	Catalog *catalog.Store
	Carts   *cart.Service
	Coupons CouponLookup
	Codes   *coupon.Registry
	Orders  *order.Ledger
	Shifts  *shift.Ledger
	Users   *user.Directory
	Inbox   *notification.Inbox
}

// Handler answers read requests. Entities come from the owning services;
// reports and activity come from the projected read store.
type Handler struct {
	readStore store.ReadStoreInterface
	src       Sources
	log       *logrus.Entry
}

func NewHandler(readStore store.ReadStoreInterface, src Sources) *Handler {
	return &Handler{readStore: readStore, src: src, log: logger.For("query")}
}

// Products
func (h *Handler) GetProduct(id string) (catalog.Product, error) {
	return h.src.Catalog.Get(id)
}

func (h *Handler) ListProducts() []catalog.Product {
	return h.src.Catalog.List()
}

func (h *Handler) SearchProducts(q string) []catalog.Product {
	return h.src.Catalog.Search(q)
}

func (h *Handler) ProductsByCategory(slug string) []catalog.Product {
	return h.src.Catalog.ByCategory(slug)
}

func (h *Handler) Categories() []catalog.Category {
	return h.src.Catalog.Categories()
}

// LowStock lists products under the reorder threshold.
func (h *Handler) LowStock() []catalog.Product {
	out := make([]catalog.Product, 0)
	for _, p := range h.src.Catalog.List() {
		if p.IsLowStock(inventory.LowStockThreshold) {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) GetInventory(productID string) (InventoryReadModel, bool) {
	data, ok := h.readStore.Get(readmodel.CollectionInventory, productID)
	if !ok {
		return InventoryReadModel{}, false
	}
	return *data.(*InventoryReadModel), true
}

// Cart
func (h *Handler) GetCart(ownerID string) CartView {
	c := h.src.Carts.Get(ownerID)
	var applied *coupon.Coupon
	if h.src.Coupons != nil {
		applied = h.src.Coupons.AppliedCoupon(ownerID)
	}
	lines := c.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartView{
		ID:      c.ID,
		OwnerID: ownerID,
		Lines:   lines,
		Count:   c.Count(),
		Coupon:  applied,
		Quote:   pricing.Quote(lines, applied),
	}
}

// ListCoupons returns every coupon code, active or not.
func (h *Handler) ListCoupons() []coupon.Coupon {
	return h.src.Codes.List()
}

// Orders
func (h *Handler) GetOrder(id string) (order.Order, error) {
	return h.src.Orders.Get(id)
}

func (h *Handler) ListOrdersByUser(userID string) []order.Order {
	return h.src.Orders.ListByUser(userID)
}

// ListAllOrders returns all orders (for staff use)
func (h *Handler) ListAllOrders() []order.Order {
	return h.src.Orders.List()
}

// OrderSummaries returns the projected order list ordered by id.
func (h *Handler) OrderSummaries() []OrderSummaryReadModel {
	items := h.readStore.GetAll(readmodel.CollectionOrders)
	out := make([]OrderSummaryReadModel, 0, len(items))
	for _, item := range items {
		out = append(out, *item.(*OrderSummaryReadModel))
	}
	return out
}

// SalesReport returns the channel revenue split. It is zero until the
// first order is projected.
func (h *Handler) SalesReport() SalesReportReadModel {
	data, ok := h.readStore.Get(readmodel.CollectionSales, readmodel.SalesReportID)
	if !ok {
		return SalesReportReadModel{}
	}
	return *data.(*SalesReportReadModel)
}

// Shifts
func (h *Handler) ListShifts(staffID string) []shift.Shift {
	if staffID == "" {
		return h.src.Shifts.List()
	}
	return h.src.Shifts.ListByStaff(staffID)
}

func (h *Handler) ActiveShift(staffID string) (shift.Shift, bool) {
	return h.src.Shifts.Active(staffID)
}

// ShiftHistory returns projected shift rows including sale counts.
func (h *Handler) ShiftHistory() []ShiftReadModel {
	items := h.readStore.GetAll(readmodel.CollectionShifts)
	out := make([]ShiftReadModel, 0, len(items))
	for _, item := range items {
		out = append(out, *item.(*ShiftReadModel))
	}
	return out
}

// Notifications
func (h *Handler) Inbox(userID string) InboxView {
	return InboxView{
		Notifications: h.src.Inbox.ListByUser(userID),
		Unread:        h.src.Inbox.UnreadCount(userID),
	}
}

// Users
func (h *Handler) GetAccount(id string) (user.Account, bool) {
	return h.src.Users.Get(id)
}

// Customers lists customer accounts with their projected activity.
func (h *Handler) Customers() []CustomerView {
	accounts := h.src.Users.List(user.RoleCustomer)
	out := make([]CustomerView, 0, len(accounts))
	for _, acc := range accounts {
		view := CustomerView{Account: acc, Activity: CustomerActivityReadModel{UserID: acc.ID}}
		if data, ok := h.readStore.Get(readmodel.CollectionCustomers, acc.ID); ok {
			view.Activity = *data.(*CustomerActivityReadModel)
		}
		out = append(out, view)
	}
	h.log.WithField("count", len(out)).Debug("Listed customers")
	return out
}
