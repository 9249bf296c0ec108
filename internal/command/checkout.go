package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/pricing"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/notification"
)

type CheckoutResult struct {
	Order        order.Order                `json:"order"`
	Quote        pricing.Breakdown          `json:"quote"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

type POSResult struct {
	Order       order.Order            `json:"order"`
	Quote       pricing.Breakdown      `json:"quote"`
	Adjustments []inventory.Adjustment `json:"adjustments"`
	Shift       *shift.Shift           `json:"shift,omitempty"`
}

type AdvanceResult struct {
	Order        order.Order                `json:"order"`
	Previous     order.Status               `json:"previous"`
	Forced       bool                       `json:"forced"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

// Checkout turns the owner's cart into a pending online order and clears
// the cart and its coupon. A signed-in member then receives a confirmation
// notification; order placement never waits on or fails because of it.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (CheckoutResult, error) {
	var res CheckoutResult
	err := h.run(ctx, "checkout", cmd, func() error {
		lines := h.deps.Carts.Get(cmd.OwnerID).Lines()
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		var applied *coupon.Coupon
		if c, ok := h.applied[cmd.OwnerID]; ok {
			if current, active := h.deps.Coupons.Resolve(c.Code); active {
				applied = &current
			} else {
				h.log.WithField("code", c.Code).Info("applied coupon no longer active, checking out without it")
			}
		}
		quote := pricing.Quote(lines, applied)

		userID := order.GuestUserID
		if _, known := h.deps.Users.Get(cmd.UserID); known {
			userID = cmd.UserID
		}
		o, err := h.deps.Orders.PlaceOnline(ctx, userID, lines, quote.Total, quote.Tax, quote.Subtotal)
		if err != nil {
			return err
		}
		if err := h.deps.Carts.Clear(ctx, cmd.OwnerID); err != nil {
			return err
		}
		delete(h.applied, cmd.OwnerID)

		res = CheckoutResult{Order: o, Quote: quote}
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	if res.Order.UserID != order.GuestUserID {
		res.Notification = h.notify(ctx, res.Order, notification.KindConfirmation)
	}
	return res, nil
}

// POSCheckout records an in-store sale. The order, the stock deduction
// and the shift total change together or not at all.
func (h *Handler) POSCheckout(ctx context.Context, cmd POSCheckout) (POSResult, error) {
	var res POSResult
	err := h.run(ctx, "pos_checkout", cmd, func() error {
		if err := h.requireStaff(cmd.StaffID); err != nil {
			return err
		}
		lines, err := h.posLines(cmd.Items)
		if err != nil {
			return err
		}
		quote := pricing.QuotePOS(lines)

		o, err := h.deps.Orders.RecordPOS(ctx, cmd.StaffID, lines, order.PaymentMethod(cmd.PaymentMethod), quote)
		if err != nil {
			return err
		}
		adjustments, err := h.deps.Inventory.Deduct(ctx, o.ID, lines)
		if err != nil {
			return err
		}
		s, ok, err := h.deps.Shifts.RecordSale(ctx, cmd.StaffID, quote.Total)
		if err != nil {
			return err
		}

		res = POSResult{Order: o, Quote: quote, Adjustments: adjustments}
		if ok {
			res.Shift = &s
		} else {
			h.log.WithFields(logrus.Fields{"order_id": o.ID, "staff_id": cmd.StaffID}).Warn("POS sale without an active shift")
		}
		return nil
	})
	return res, err
}

// posLines snapshots catalog products into ticket lines. Repeated items
// with the same selection merge.
func (h *Handler) posLines(items []POSItem) ([]cart.Line, error) {
	ticket := cart.New("pos", "pos")
	for _, it := range items {
		p, err := h.deps.Catalog.Get(it.ProductID)
		if err != nil {
			return nil, err
		}
		sel := cart.Selection(it.SelectedVariants)
		if err := sel.Validate(p); err != nil {
			return nil, err
		}
		line := ticket.AddItem(p, sel)
		q := line.Quantity + it.Quantity - 1
		if q > cart.MaxQuantity {
			return nil, fmt.Errorf("%w: %s", cart.ErrQuantityTooLarge, p.ID)
		}
		ticket.SetQuantity(line.Key(), q)
	}
	return ticket.Lines(), nil
}
