package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/coupon"
)

// Contractual rates. They are not configuration.
var (
	TaxRate               = decimal.RequireFromString("0.08")
	FreeShippingThreshold = decimal.NewFromInt(500)
	ShippingFee           = decimal.NewFromInt(25)
)

var hundred = decimal.NewFromInt(100)

// Breakdown is the priced view of a set of cart lines.
type Breakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

// Subtotal sums price x quantity over lines.
func Subtotal(lines []cart.Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Tax is subtotal x 8%, rounded to a whole unit, half away from zero.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(0)
}

// Quote prices an online cart. Shipping is waived strictly above the
// threshold; a subtotal of exactly 500 still pays shipping.
func Quote(lines []cart.Line, c *coupon.Coupon) Breakdown {
	subtotal := Subtotal(lines)
	b := Breakdown{
		Subtotal: subtotal,
		Tax:      Tax(subtotal),
		Discount: decimal.Zero,
		Shipping: ShippingFee,
	}
	if c != nil {
		b.Discount = subtotal.Mul(decimal.NewFromInt(int64(c.DiscountPercent))).Div(hundred)
		b.CouponCode = c.Code
	}
	if subtotal.GreaterThan(FreeShippingThreshold) {
		b.Shipping = decimal.Zero
	}
	b.Total = subtotal.Add(b.Tax).Sub(b.Discount).Add(b.Shipping)
	return b
}

// QuotePOS prices an in-store ticket: subtotal plus tax, nothing else.
func QuotePOS(lines []cart.Line) Breakdown {
	subtotal := Subtotal(lines)
	tax := Tax(subtotal)
	return Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    subtotal.Add(tax),
	}
}
