package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/nova-commerce/internal/domain/order"
)

// Kind is the reason an order message is produced.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindShipping     Kind = "shipping"
	KindDelivery     Kind = "delivery"
)

// Type is the stored category of a notification.
type Type string

const (
	TypeOrderConfirmation    Type = "order_confirmation"
	TypeShippingUpdate       Type = "shipping_update"
	TypeDeliveryConfirmation Type = "delivery_confirmation"
)

// Type maps a message kind to the inbox category.
func (k Kind) Type() Type {
	switch k {
	case KindShipping:
		return TypeShippingUpdate
	case KindDelivery:
		return TypeDeliveryConfirmation
	default:
		return TypeOrderConfirmation
	}
}

func (k Kind) label() string {
	switch k {
	case KindShipping:
		return "shipping update"
	case KindDelivery:
		return "delivery confirmation"
	default:
		return "order confirmation"
	}
}

// KindForStatus returns the message kind announced when an order enters
// status s.
func KindForStatus(s order.Status) (Kind, bool) {
	switch s {
	case order.StatusShipped:
		return KindShipping, true
	case order.StatusDelivered:
		return KindDelivery, true
	}
	return "", false
}

// Content is the human-readable text of a notification.
type Content struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Request is the input to a text generator.
type Request struct {
	Order order.Order
	Kind  Kind
	Email string
}

// Generator produces order-update text. Implementations may call remote
// services and may fail.
type Generator interface {
	Generate(ctx context.Context, req Request) (Content, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Content, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Content, error) {
	return f(ctx, req)
}

// Fallback is the content used whenever generation fails.
func Fallback(o order.Order) Content {
	return Content{
		Subject: fmt.Sprintf("Order Update %s", o.ID),
		Body:    fmt.Sprintf("Order %s is currently %s.", o.ID, o.Status),
	}
}

// TemplateGenerator writes fixed NOVA copy without any remote call.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, req Request) (Content, error) {
	o := req.Order
	var subject, intro string
	switch req.Kind {
	case KindShipping:
		subject = fmt.Sprintf("NOVA: Your order %s is on its way", o.ID)
		intro = "Good news. Your order has left our warehouse and is heading to you."
	case KindDelivery:
		subject = fmt.Sprintf("NOVA: Your order %s has been delivered", o.ID)
		intro = "Your order has arrived. We hope you enjoy it."
	default:
		subject = fmt.Sprintf("NOVA: Order %s confirmed", o.ID)
		intro = "Thank you for shopping with NOVA. We have received your order."
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString(intro)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", o.ID)
	fmt.Fprintf(&b, "Items: %s\n", itemsSummary(o))
	fmt.Fprintf(&b, "Total: $%s\n", FormatAmount(o.Total))
	fmt.Fprintf(&b, "Status: %s\n\n", o.Status)
	b.WriteString("The NOVA Team")
	return Content{Subject: subject, Body: b.String()}, nil
}

func itemsSummary(o order.Order) string {
	parts := make([]string, len(o.Items))
	for i, it := range o.Items {
		parts[i] = fmt.Sprintf("%s (x%d)", it.Product.Name, it.Quantity)
	}
	return strings.Join(parts, ", ")
}

// FormatAmount renders money with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	str := d.Abs().StringFixed(2)
	intPart, frac := str[:len(str)-3], str[len(str)-3:]

	var result strings.Builder
	if d.IsNegative() {
		result.WriteString("-")
	}
	remainder := len(intPart) % 3
	if remainder > 0 {
		result.WriteString(intPart[:remainder])
	}
	for i := remainder; i < len(intPart); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(intPart[i : i+3])
	}
	result.WriteString(frac)
	return result.String()
}
