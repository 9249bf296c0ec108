package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/pricing"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const AggregateType = "Order"

const maxIDAttempts = 64

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order must contain at least one item")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrStaffRequired        = errors.New("staff_id is required")
	ErrIDExhausted          = errors.New("could not allocate a unique order id")
	ErrNegativeTotal        = errors.New("order total must not be negative")
)

// IDGenerator returns a candidate order id for the given order type.
type IDGenerator func(t Type) string

// RandomIDs draws a four digit number: #NV1234 online, #POS-1234 in store.
func RandomIDs(t Type) string {
	n := 1000 + rand.IntN(9000)
	if t == TypePOS {
		return fmt.Sprintf("#POS-%d", n)
	}
	return fmt.Sprintf("#NV%d", n)
}

// Ledger is the order history, newest first.
type Ledger struct {
	mu         sync.RWMutex
	orders     []Order
	policy     TransitionPolicy
	newID      IDGenerator
	now        func() time.Time
	eventStore store.EventStoreInterface
	log        *logrus.Entry
}

type Option func(*Ledger)

func WithPolicy(p TransitionPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) { l.newID = g }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(es store.EventStoreInterface, opts ...Option) *Ledger {
	l := &Ledger{
		policy:     StrictPolicy{},
		newID:      RandomIDs,
		now:        time.Now,
		eventStore: es,
		log:        logger.For("orders"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the active transition policy.
func (l *Ledger) Policy() TransitionPolicy {
	return l.policy
}

// allocateID must be called with l.mu held.
func (l *Ledger) allocateID(t Type) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := l.newID(t)
		if l.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func (l *Ledger) indexOf(id string) int {
	for i, o := range l.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// PlaceOnline records a storefront order as pending. The discount is
// derived as subtotal - finalTotal + tax, so shipping shows up in it as a
// negative amount when no coupon applies.
func (l *Ledger) PlaceOnline(ctx context.Context, userID string, lines []cart.Line, finalTotal, tax, subtotal decimal.Decimal) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyOrder
	}
	if userID == "" {
		userID = GuestUserID
	}
	return l.place(ctx, Order{
		UserID:   userID,
		Items:    cart.CloneLines(lines),
		Total:    finalTotal,
		Tax:      tax,
		Discount: subtotal.Sub(finalTotal).Add(tax),
		Status:   StatusPending,
		Type:     TypeOnline,
	})
}

// RecordPOS records an in-store sale. It is delivered on creation.
func (l *Ledger) RecordPOS(ctx context.Context, staffID string, lines []cart.Line, method PaymentMethod, quote pricing.Breakdown) (Order, error) {
	if len(lines) == 0 {
		return Order{}, ErrEmptyOrder
	}
	if staffID == "" {
		return Order{}, ErrStaffRequired
	}
	if !method.Valid() {
		return Order{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	return l.place(ctx, Order{
		UserID:        InStoreUserID,
		Items:         cart.CloneLines(lines),
		Total:         quote.Total,
		Tax:           quote.Tax,
		Discount:      decimal.Zero,
		Status:        StatusDelivered,
		Type:          TypePOS,
		PaymentMethod: method,
		StaffID:       staffID,
	})
}

func (l *Ledger) place(ctx context.Context, o Order) (Order, error) {
	if o.Total.IsNegative() {
		return Order{}, fmt.Errorf("%w: %s", ErrNegativeTotal, o.Total)
	}

	l.mu.Lock()
	id, err := l.allocateID(o.Type)
	if err != nil {
		l.mu.Unlock()
		return Order{}, err
	}
	o.ID = id
	o.Date = l.now()
	l.orders = append([]Order{o}, l.orders...)
	l.mu.Unlock()

	event := OrderPlaced{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Type:          o.Type,
		Items:         cart.CloneLines(o.Items),
		Total:         o.Total,
		Tax:           o.Tax,
		Discount:      o.Discount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		StaffID:       o.StaffID,
		PlacedAt:      o.Date,
	}
	if _, err := l.eventStore.Append(ctx, o.ID, AggregateType, EventOrderPlaced, event); err != nil {
		return Order{}, fmt.Errorf("failed to record order placed: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"type":     o.Type,
		"user_id":  o.UserID,
		"total":    o.Total.String(),
	}).Info("order placed")
	return o.Clone(), nil
}

// Advance moves an order to next through the configured policy. It returns
// the updated order and the status it had before.
func (l *Ledger) Advance(ctx context.Context, id string, next Status) (Order, Status, error) {
	if !next.Valid() {
		return Order{}, "", fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}

	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return Order{}, "", fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	prev := l.orders[i].Status
	if err := l.policy.Check(prev, next); err != nil {
		l.mu.Unlock()
		return Order{}, prev, err
	}
	l.orders[i].Status = next
	updated := l.orders[i].Clone()
	l.mu.Unlock()

	forced := !CanTransition(prev, next)
	entry := l.log.WithFields(logrus.Fields{"order_id": id, "from": prev, "to": next})
	if forced {
		entry.Warn("status change outside lifecycle applied")
	} else {
		entry.Info("order status changed")
	}

	event := OrderStatusChanged{
		OrderID:   id,
		UserID:    updated.UserID,
		Type:      updated.Type,
		From:      prev,
		To:        next,
		Forced:    forced,
		ChangedAt: l.now(),
	}
	if _, err := l.eventStore.Append(ctx, id, AggregateType, EventOrderStatusChanged, event); err != nil {
		return Order{}, prev, fmt.Errorf("failed to record status change: %w", err)
	}
	return updated, prev, nil
}

func (l *Ledger) Get(id string) (Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexOf(id)
	if i < 0 {
		return Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return l.orders[i].Clone(), nil
}

// List returns every order, newest first.
func (l *Ledger) List() []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Order, len(l.orders))
	for i, o := range l.orders {
		out[i] = o.Clone()
	}
	return out
}

// ListByUser returns the user's orders, newest first.
func (l *Ledger) ListByUser(userID string) []Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Order
	for _, o := range l.orders {
		if o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (l *Ledger) Snapshot() []Order {
	return l.List()
}

func (l *Ledger) Restore(orders []Order) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.orders = make([]Order, len(orders))
	for i, o := range orders {
		l.orders[i] = o.Clone()
	}
}
