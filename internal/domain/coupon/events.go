package coupon

import "time"

const (
	EventCouponCreated = "CouponCreated"
	EventCouponToggled = "CouponToggled"
)

type CouponCreated struct {
	Code            string    `json:"code"`
	DiscountPercent int       `json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

type CouponToggled struct {
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
	ToggledAt time.Time `json:"toggled_at"`
}
