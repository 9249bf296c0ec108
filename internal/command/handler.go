package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/review"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotStaff       = errors.New("staff account required")
)

// Deps are the services the Handler coordinates.
type Deps struct {
	Catalog   *catalog.Store
	Carts     *cart.Service
	Coupons   *coupon.Registry
	Orders    *order.Ledger
	Inventory *inventory.Adjuster
	Shifts    *shift.Ledger
	Reviews   *review.Aggregator
	Users     *user.Directory
	Inbox     *notification.Inbox
	Composer  *notification.Composer
	Events    store.Transactional
}

// Handler runs every state-changing operation one at a time. Each
// operation either applies completely or leaves no trace: state is
// restored and its events are never delivered.
type Handler struct {
	mu       sync.Mutex
	deps     Deps
	applied  map[string]coupon.Coupon // cart owner -> applied coupon
	validate *validator.Validate
	log      *logrus.Entry
}

func NewHandler(deps Deps) *Handler {
	if deps.Composer == nil {
		deps.Composer = notification.NewComposer(nil, 0)
	}
	return &Handler{
		deps:     deps,
		applied:  make(map[string]coupon.Coupon),
		validate: validator.New(),
		log:      logger.For("command"),
	}
}

type snapshot struct {
	products []catalog.Product
	carts    map[string]*cart.Cart
	coupons  []coupon.Coupon
	orders   []order.Order
	shifts   []shift.Shift
	applied  map[string]coupon.Coupon
}

func (h *Handler) snapshot() snapshot {
	applied := make(map[string]coupon.Coupon, len(h.applied))
	for k, v := range h.applied {
		applied[k] = v
	}
	return snapshot{
		products: h.deps.Catalog.Snapshot(),
		carts:    h.deps.Carts.Snapshot(),
		coupons:  h.deps.Coupons.Snapshot(),
		orders:   h.deps.Orders.Snapshot(),
		shifts:   h.deps.Shifts.Snapshot(),
		applied:  applied,
	}
}

func (h *Handler) restore(s snapshot) {
	h.deps.Catalog.Restore(s.products)
	h.deps.Carts.Restore(s.carts)
	h.deps.Coupons.Restore(s.coupons)
	h.deps.Orders.Restore(s.orders)
	h.deps.Shifts.Restore(s.shifts)
	h.applied = s.applied
}

// apply runs fn as one unit. The caller must hold h.mu.
func (h *Handler) apply(ctx context.Context, op string, fn func() error) error {
	snap := h.snapshot()
	h.deps.Events.Begin()
	if err := fn(); err != nil {
		h.deps.Events.Rollback()
		h.restore(snap)
		h.log.WithField("op", op).WithError(err).Debug("operation rolled back")
		return err
	}
	h.deps.Events.Commit(ctx)
	return nil
}

// run validates cmd, then applies fn under the handler lock.
func (h *Handler) run(ctx context.Context, op string, cmd any, fn func() error) error {
	if cmd != nil {
		if err := h.validate.Struct(cmd); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.apply(ctx, op, fn)
}

// Login authenticates an account and records the login. The password
// check runs before the handler lock is taken.
func (h *Handler) Login(ctx context.Context, cmd Login) (user.Account, error) {
	if err := h.validate.Struct(cmd); err != nil {
		return user.Account{}, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	acc, err := h.deps.Users.Verify(cmd.Email, cmd.Password)
	if err != nil {
		return user.Account{}, err
	}
	err = h.run(ctx, "login", nil, func() error {
		return h.deps.Users.RecordLogin(ctx, acc, cmd.IPAddress, cmd.UserAgent)
	})
	if err != nil {
		return user.Account{}, err
	}
	return acc, nil
}

// Register creates a customer account.
func (h *Handler) Register(ctx context.Context, cmd Register) (user.Account, error) {
	var acc user.Account
	err := h.run(ctx, "register", cmd, func() error {
		var err error
		acc, err = h.deps.Users.Register(ctx, cmd.Email, cmd.Password, cmd.Name)
		return err
	})
	return acc, err
}

// AddToCart adds one unit of a catalog product to the owner's cart
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (cart.Line, error) {
	var line cart.Line
	err := h.run(ctx, "add_to_cart", cmd, func() error {
		p, err := h.deps.Catalog.Get(cmd.ProductID)
		if err != nil {
			return err
		}
		line, err = h.deps.Carts.AddItem(ctx, cmd.OwnerID, p, cart.Selection(cmd.SelectedVariants))
		return err
	})
	return line, err
}

// UpdateCartQuantity sets a line quantity. Quantities below one remove it.
func (h *Handler) UpdateCartQuantity(ctx context.Context, cmd UpdateCartQuantity) error {
	return h.run(ctx, "update_cart_quantity", cmd, func() error {
		return h.deps.Carts.SetQuantity(ctx, cmd.OwnerID, cmd.ProductID, cart.Selection(cmd.SelectedVariants), cmd.Quantity)
	})
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.run(ctx, "remove_from_cart", cmd, func() error {
		return h.deps.Carts.RemoveLine(ctx, cmd.OwnerID, cmd.ProductID, cart.Selection(cmd.SelectedVariants))
	})
}

// ApplyCoupon applies code to the owner's cart. An unknown or inactive
// code returns coupon.ErrCouponNotFound together with the coupon that
// stays applied, possibly nil.
func (h *Handler) ApplyCoupon(ctx context.Context, cmd ApplyCoupon) (*coupon.Coupon, error) {
	if err := h.validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	var current *coupon.Coupon
	if c, ok := h.applied[cmd.OwnerID]; ok {
		current = &c
	}
	next, err := h.deps.Coupons.Apply(cmd.Code, current)
	if err != nil {
		return current, err
	}
	h.applied[cmd.OwnerID] = *next
	return next, nil
}

func (h *Handler) RemoveCoupon(ctx context.Context, cmd RemoveCoupon) error {
	return h.run(ctx, "remove_coupon", cmd, func() error {
		delete(h.applied, cmd.OwnerID)
		return nil
	})
}

// AppliedCoupon returns the coupon currently applied to the owner's cart.
func (h *Handler) AppliedCoupon(ownerID string) *coupon.Coupon {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.applied[ownerID]
	if !ok {
		return nil
	}
	return &c
}

// AdvanceOrder applies a status change through the ledger's transition
// policy. Shipping and delivery of a member's online order produce a
// notification.
func (h *Handler) AdvanceOrder(ctx context.Context, cmd AdvanceOrder) (AdvanceResult, error) {
	var res AdvanceResult
	err := h.run(ctx, "advance_order", cmd, func() error {
		o, prev, err := h.deps.Orders.Advance(ctx, cmd.OrderID, order.Status(cmd.Status))
		if err != nil {
			return err
		}
		res = AdvanceResult{Order: o, Previous: prev, Forced: !order.CanTransition(prev, o.Status)}
		return nil
	})
	if err != nil {
		return AdvanceResult{}, err
	}

	if kind, ok := notification.KindForStatus(res.Order.Status); ok && res.Order.Type == order.TypeOnline {
		res.Notification = h.notify(ctx, res.Order, kind)
	}
	return res, nil
}

// OpenShift starts a shift. A second open for the same staff member
// returns the active shift with shift.ErrShiftAlreadyActive.
func (h *Handler) OpenShift(ctx context.Context, cmd OpenShift) (shift.Shift, error) {
	var s shift.Shift
	err := h.run(ctx, "open_shift", cmd, func() error {
		if err := h.requireStaff(cmd.StaffID); err != nil {
			return err
		}
		var err error
		s, err = h.deps.Shifts.Open(ctx, cmd.StaffID)
		return err
	})
	return s, err
}

func (h *Handler) CloseShift(ctx context.Context, cmd CloseShift) (shift.Shift, error) {
	var s shift.Shift
	err := h.run(ctx, "close_shift", cmd, func() error {
		var err error
		s, err = h.deps.Shifts.Close(ctx, cmd.ShiftID)
		return err
	})
	return s, err
}

func (h *Handler) AddReview(ctx context.Context, cmd AddReview) (catalog.Review, catalog.Product, error) {
	var (
		r catalog.Review
		p catalog.Product
	)
	err := h.run(ctx, "add_review", cmd, func() error {
		var err error
		r, p, err = h.deps.Reviews.Add(ctx, cmd.ProductID, review.Submission{
			UserName: cmd.UserName,
			Rating:   cmd.Rating,
			Comment:  cmd.Comment,
		})
		return err
	})
	return r, p, err
}

func (h *Handler) Restock(ctx context.Context, cmd Restock) (catalog.Product, error) {
	var p catalog.Product
	err := h.run(ctx, "restock", cmd, func() error {
		var err error
		p, err = h.deps.Inventory.Restock(ctx, cmd.ProductID, cmd.Quantity)
		return err
	})
	return p, err
}

func (h *Handler) CreateCoupon(ctx context.Context, cmd CreateCoupon) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := h.run(ctx, "create_coupon", cmd, func() error {
		var err error
		c, err = h.deps.Coupons.Add(ctx, cmd.Code, cmd.DiscountPercent)
		return err
	})
	return c, err
}

// SetCouponActive toggles a coupon. Carts that already applied it keep it
// until checkout, where it is resolved again.
func (h *Handler) SetCouponActive(ctx context.Context, cmd SetCouponActive) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := h.run(ctx, "set_coupon_active", cmd, func() error {
		var err error
		c, err = h.deps.Coupons.SetActive(ctx, cmd.Code, cmd.Active)
		return err
	})
	return c, err
}

func (h *Handler) MarkNotificationRead(ctx context.Context, cmd MarkNotificationRead) (notification.Notification, error) {
	var n notification.Notification
	err := h.run(ctx, "mark_notification_read", cmd, func() error {
		var err error
		n, err = h.deps.Inbox.MarkRead(ctx, cmd.UserID, cmd.NotificationID)
		return err
	})
	return n, err
}

func (h *Handler) requireStaff(staffID string) error {
	acc, ok := h.deps.Users.Get(staffID)
	if !ok || !acc.Role.IsStaff() {
		return fmt.Errorf("%w: %s", ErrNotStaff, staffID)
	}
	return nil
}

// notify composes a message for the order's owner outside the lock, then
// stores it. Guests and unknown users get nothing. Failures are logged.
func (h *Handler) notify(ctx context.Context, o order.Order, kind notification.Kind) *notification.Notification {
	acc, ok := h.deps.Users.Get(o.UserID)
	if !ok {
		return nil
	}
	content := h.deps.Composer.Compose(ctx, o, kind, acc.Email)

	var n notification.Notification
	err := h.run(ctx, "notify", nil, func() error {
		var err error
		n, err = h.deps.Inbox.Add(ctx, notification.Recipient{UserID: acc.ID, Email: acc.Email}, o.ID, kind, content)
		return err
	})
	if err != nil {
		h.log.WithFields(logrus.Fields{"order_id": o.ID, "user_id": acc.ID}).WithError(err).Error("Failed to store notification")
		return nil
	}
	return &n
}
