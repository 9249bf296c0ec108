package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/coupon"
)

func lines(amounts ...int64) []cart.Line {
	out := make([]cart.Line, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, cart.Line{Product: catalog.Product{ID: "p", Price: a}, Quantity: 1})
	}
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// ============================================
// Quote Tests
// ============================================

func TestQuote_NoCouponWithShipping(t *testing.T) {
	b := Quote(lines(300), nil)

	assertDecimal(t, "300", b.Subtotal)
	assertDecimal(t, "24", b.Tax)
	assertDecimal(t, "0", b.Discount)
	assertDecimal(t, "25", b.Shipping)
	assertDecimal(t, "349", b.Total)
	assert.Empty(t, b.CouponCode)
}

func TestQuote_CouponAndFreeShipping(t *testing.T) {
	b := Quote(lines(600), &coupon.Coupon{Code: "NOVA20", DiscountPercent: 20, IsActive: true})

	assertDecimal(t, "600", b.Subtotal)
	assertDecimal(t, "48", b.Tax)
	assertDecimal(t, "120", b.Discount)
	assertDecimal(t, "0", b.Shipping)
	assertDecimal(t, "528", b.Total)
	assert.Equal(t, "NOVA20", b.CouponCode)
}

func TestQuote_ShippingBoundary(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		shipping string
	}{
		{"exactly threshold pays shipping", 500, "25"},
		{"just above threshold ships free", 501, "0"},
		{"empty cart pays shipping", 0, "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ls []cart.Line
			if tt.subtotal > 0 {
				ls = lines(tt.subtotal)
			}
			assertDecimal(t, tt.shipping, Quote(ls, nil).Shipping)
		})
	}
}

func TestQuote_EmptyCart(t *testing.T) {
	b := Quote(nil, nil)

	assertDecimal(t, "0", b.Subtotal)
	assertDecimal(t, "0", b.Tax)
	assertDecimal(t, "25", b.Total)
}

func TestQuote_MultipleLinesAndQuantities(t *testing.T) {
	ls := []cart.Line{
		{Product: catalog.Product{ID: "p3", Price: 398}, Quantity: 2},
		{Product: catalog.Product{ID: "p6", Price: 99}, Quantity: 1},
	}

	b := Quote(ls, nil)

	assertDecimal(t, "895", b.Subtotal)
	assertDecimal(t, "72", b.Tax) // 71.6
	assertDecimal(t, "967", b.Total)
}

func TestQuote_SubtotalBeyondInt64(t *testing.T) {
	ls := []cart.Line{{Product: catalog.Product{ID: "p", Price: math.MaxInt64}, Quantity: 2}}

	b := Quote(ls, nil)

	assertDecimal(t, "18446744073709551614", b.Subtotal)
	assert.True(t, b.Total.IsPositive())
	assert.True(t, b.Shipping.IsZero())
}

func TestQuote_FractionalDiscount(t *testing.T) {
	b := Quote(lines(333), &coupon.Coupon{Code: "WELCOME", DiscountPercent: 20})

	assertDecimal(t, "66.6", b.Discount)
	assertDecimal(t, "27", b.Tax) // 26.64
	assertDecimal(t, "318.4", b.Total)
}

func TestTax_RoundsHalfUp(t *testing.T) {
	// 56.25 * 0.08 = 4.5
	assertDecimal(t, "5", Tax(decimal.RequireFromString("56.25")))
	// 31 * 0.08 = 2.48
	assertDecimal(t, "2", Tax(decimal.NewFromInt(31)))
}

// ============================================
// POS Tests
// ============================================

func TestQuotePOS(t *testing.T) {
	b := QuotePOS(lines(3499, 99))

	assertDecimal(t, "3598", b.Subtotal)
	assertDecimal(t, "288", b.Tax) // 287.84
	assertDecimal(t, "0", b.Shipping)
	assertDecimal(t, "0", b.Discount)
	assertDecimal(t, "3886", b.Total)
}

func TestQuotePOS_SmallTicketHasNoShipping(t *testing.T) {
	b := QuotePOS(lines(99))

	assertDecimal(t, "0", b.Shipping)
	assertDecimal(t, "107", b.Total) // 99 + 7.92
}
