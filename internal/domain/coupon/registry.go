package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const AggregateType = "Coupon"

var (
	ErrCouponNotFound  = errors.New("coupon not found or inactive")
	ErrInvalidCode     = errors.New("coupon code is required")
	ErrInvalidPercent  = errors.New("discount percent must be between 0 and 100")
	ErrDuplicateCoupon = errors.New("coupon code already exists")
)

// Coupon is a percentage discount on the cart subtotal.
type Coupon struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
	IsActive        bool   `json:"is_active"`
}

// Registry holds the coupon set. Codes are stored upper-case and matched
// case-insensitively.
type Registry struct {
	mu         sync.RWMutex
	coupons    []Coupon
	eventStore store.EventStoreInterface
	log        *logrus.Entry
}

func NewRegistry(es store.EventStoreInterface, coupons []Coupon) *Registry {
	r := &Registry{eventStore: es, log: logger.For("coupon")}
	for _, c := range coupons {
		c.Code = normalize(c.Code)
		r.coupons = append(r.coupons, c)
	}
	return r
}

// FromSeed converts seed file coupon definitions.
func FromSeed(seed []catalog.SeedCoupon) []Coupon {
	out := make([]Coupon, len(seed))
	for i, sc := range seed {
		out[i] = Coupon{Code: sc.Code, DiscountPercent: sc.DiscountPercent, IsActive: sc.Active}
	}
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *Registry) find(code string) int {
	for i, c := range r.coupons {
		if c.Code == code {
			return i
		}
	}
	return -1
}

// Resolve finds an active coupon by code.
func (r *Registry) Resolve(code string) (Coupon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.find(normalize(code))
	if i < 0 || !r.coupons[i].IsActive {
		return Coupon{}, false
	}
	return r.coupons[i], true
}

// Apply resolves code as the next applied coupon. On failure the current
// coupon is returned unchanged together with ErrCouponNotFound.
func (r *Registry) Apply(code string, current *Coupon) (*Coupon, error) {
	c, ok := r.Resolve(code)
	if !ok {
		r.log.WithField("code", code).Debug("coupon rejected")
		return current, fmt.Errorf("%w: %s", ErrCouponNotFound, code)
	}
	return &c, nil
}

// Add creates an active coupon.
func (r *Registry) Add(ctx context.Context, code string, percent int) (Coupon, error) {
	code = normalize(code)
	if code == "" {
		return Coupon{}, ErrInvalidCode
	}
	if percent < 0 || percent > 100 {
		return Coupon{}, ErrInvalidPercent
	}

	r.mu.Lock()
	if r.find(code) >= 0 {
		r.mu.Unlock()
		return Coupon{}, fmt.Errorf("%w: %s", ErrDuplicateCoupon, code)
	}
	c := Coupon{Code: code, DiscountPercent: percent, IsActive: true}
	r.coupons = append(r.coupons, c)
	r.mu.Unlock()

	event := CouponCreated{Code: code, DiscountPercent: percent, CreatedAt: time.Now()}
	if _, err := r.eventStore.Append(ctx, code, AggregateType, EventCouponCreated, event); err != nil {
		return Coupon{}, fmt.Errorf("failed to record coupon created: %w", err)
	}
	r.log.WithFields(logrus.Fields{"code": code, "percent": percent}).Info("coupon created")
	return c, nil
}

// SetActive enables or disables an existing coupon.
func (r *Registry) SetActive(ctx context.Context, code string, active bool) (Coupon, error) {
	code = normalize(code)
	r.mu.Lock()
	i := r.find(code)
	if i < 0 {
		r.mu.Unlock()
		return Coupon{}, fmt.Errorf("%w: %s", ErrCouponNotFound, code)
	}
	r.coupons[i].IsActive = active
	c := r.coupons[i]
	r.mu.Unlock()

	event := CouponToggled{Code: code, IsActive: active, ToggledAt: time.Now()}
	if _, err := r.eventStore.Append(ctx, code, AggregateType, EventCouponToggled, event); err != nil {
		return Coupon{}, fmt.Errorf("failed to record coupon toggle: %w", err)
	}
	return c, nil
}

// List returns every coupon, active or not, in creation order.
func (r *Registry) List() []Coupon {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Coupon(nil), r.coupons...)
}

// Snapshot captures the coupon set for a later Restore.
func (r *Registry) Snapshot() []Coupon {
	return r.List()
}

func (r *Registry) Restore(coupons []Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons = append([]Coupon(nil), coupons...)
}
