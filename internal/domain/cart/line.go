package cart

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/nova-commerce/internal/domain/catalog"
)

// MaxQuantity caps the units of one line.
const MaxQuantity = 9999

var (
	ErrInvalidVariant   = errors.New("invalid variant selection")
	ErrQuantityTooLarge = fmt.Errorf("quantity exceeds %d units per line", MaxQuantity)
)

// Selection maps a variant type to the chosen option, e.g. Color -> Silver.
type Selection map[string]string

// Key is the canonical form of the selection: types sorted, each pair
// quoted. Two selections with the same pairs always share a key no matter
// how they were built; nil and empty selections share the empty key.
func (s Selection) Key() string {
	if len(s) == 0 {
		return ""
	}
	types := make([]string, 0, len(s))
	for t := range s {
		types = append(types, t)
	}
	sort.Strings(types)

	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Quote(t))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(s[t]))
	}
	return b.String()
}

func (s Selection) Clone() Selection {
	if s == nil {
		return nil
	}
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Validate checks every chosen option against the product's variants.
func (s Selection) Validate(p catalog.Product) error {
	for t, o := range s {
		if !p.HasOption(t, o) {
			return fmt.Errorf("%w: %s=%s for %s", ErrInvalidVariant, t, o, p.ID)
		}
	}
	return nil
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID string
	Variants  string
}

func KeyOf(productID string, s Selection) LineKey {
	return LineKey{ProductID: productID, Variants: s.Key()}
}

// Line is one product/selection pair in a cart. Product is the snapshot
// taken when the line was created, so the line keeps its add-time price.
type Line struct {
	Product          catalog.Product `json:"product"`
	Quantity         int             `json:"quantity"`
	SelectedVariants Selection       `json:"selected_variants,omitempty"`
}

func (l Line) Key() LineKey {
	return KeyOf(l.Product.ID, l.SelectedVariants)
}

// Amount is price times quantity.
func (l Line) Amount() decimal.Decimal {
	return decimal.NewFromInt(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Clone() Line {
	return Line{
		Product:          l.Product.Clone(),
		Quantity:         l.Quantity,
		SelectedVariants: l.SelectedVariants.Clone(),
	}
}

// CloneLines deep-copies a slice of lines.
func CloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
