package catalog

import "time"

// Variant is one configurable dimension of a product, e.g. Color.
type Variant struct {
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

// Review is a customer review. Reviews are prepended and never edited.
type Review struct {
	ID       string    `json:"id"`
	UserName string    `json:"user_name"`
	Rating   int       `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

// Product is a catalog entry. Price is in whole currency units.
// Rating and Reviews are derived from ReviewsList once a review is added.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
	IsNew       bool      `json:"is_new,omitempty"`
	Discount    int       `json:"discount,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	ReviewsList []Review  `json:"reviews_list,omitempty"`
}

// Category groups products by slug.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// Clone returns a deep copy.
func (p Product) Clone() Product {
	out := p
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		for i, v := range p.Variants {
			out.Variants[i] = Variant{Type: v.Type, Options: append([]string(nil), v.Options...)}
		}
	}
	if p.ReviewsList != nil {
		out.ReviewsList = append([]Review(nil), p.ReviewsList...)
	}
	return out
}

// VariantOptions returns the options of the given variant type.
func (p Product) VariantOptions(variantType string) ([]string, bool) {
	for _, v := range p.Variants {
		if v.Type == variantType {
			return v.Options, true
		}
	}
	return nil, false
}

// HasOption reports whether option is offered for variantType.
func (p Product) HasOption(variantType, option string) bool {
	options, ok := p.VariantOptions(variantType)
	if !ok {
		return false
	}
	for _, o := range options {
		if o == option {
			return true
		}
	}
	return false
}

// IsLowStock reports whether stock is under threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Stock < threshold
}
