package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const AggregateType = "Inventory"

// LowStockThreshold matches the storefront "low stock" badge.
const LowStockThreshold = 10

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Adjustment is the stock effect of one sold line.
type Adjustment struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
	Oversold  bool   `json:"oversold,omitempty"`
}

// Adjuster applies stock changes to the catalog.
type Adjuster struct {
	catalog    *catalog.Store
	eventStore store.EventStoreInterface
	log        *logrus.Entry
}

func NewAdjuster(c *catalog.Store, es store.EventStoreInterface) *Adjuster {
	return &Adjuster{catalog: c, eventStore: es, log: logger.For("inventory")}
}

// Deduct lowers stock for every sold line, clamping at zero. Lines of the
// same product with different variants each deduct. Every product is
// checked before any stock changes.
func (a *Adjuster) Deduct(ctx context.Context, orderID string, lines []cart.Line) ([]Adjustment, error) {
	for _, l := range lines {
		if _, err := a.catalog.Get(l.Product.ID); err != nil {
			return nil, err
		}
	}

	adjustments := make([]Adjustment, 0, len(lines))
	for _, l := range lines {
		adj := Adjustment{ProductID: l.Product.ID, Requested: l.Quantity}
		_, err := a.catalog.Update(l.Product.ID, func(p *catalog.Product) error {
			adj.Before = p.Stock
			p.Stock = max(0, p.Stock-l.Quantity)
			adj.After = p.Stock
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to deduct stock: %w", err)
		}
		adj.Oversold = l.Quantity > adj.Before
		adjustments = append(adjustments, adj)

		if adj.Oversold {
			a.log.WithFields(logrus.Fields{
				"order_id":   orderID,
				"product_id": adj.ProductID,
				"requested":  adj.Requested,
				"on_hand":    adj.Before,
			}).Warn("sale exceeded stock, clamped to zero")
		}

		event := StockDeducted{
			ProductID:  adj.ProductID,
			OrderID:    orderID,
			Quantity:   adj.Requested,
			Before:     adj.Before,
			After:      adj.After,
			Oversold:   adj.Oversold,
			DeductedAt: time.Now(),
		}
		if _, err := a.eventStore.Append(ctx, adj.ProductID, AggregateType, EventStockDeducted, event); err != nil {
			return nil, fmt.Errorf("failed to record stock deduction: %w", err)
		}
	}
	return adjustments, nil
}

// Restock adds quantity units to a product.
func (a *Adjuster) Restock(ctx context.Context, productID string, quantity int) (catalog.Product, error) {
	if quantity <= 0 {
		return catalog.Product{}, ErrInvalidQuantity
	}
	var before int
	p, err := a.catalog.Update(productID, func(p *catalog.Product) error {
		before = p.Stock
		p.Stock += quantity
		return nil
	})
	if err != nil {
		return catalog.Product{}, err
	}

	event := StockAdded{ProductID: productID, Quantity: quantity, Before: before, After: p.Stock, AddedAt: time.Now()}
	if _, err := a.eventStore.Append(ctx, productID, AggregateType, EventStockAdded, event); err != nil {
		return catalog.Product{}, fmt.Errorf("failed to record restock: %w", err)
	}
	a.log.WithFields(logrus.Fields{"product_id": productID, "stock": p.Stock}).Info("restocked")
	return p, nil
}

// LowStock lists products with stock under threshold, in catalog order.
func (a *Adjuster) LowStock(threshold int) []catalog.Product {
	var out []catalog.Product
	for _, p := range a.catalog.List() {
		if p.IsLowStock(threshold) {
			out = append(out, p)
		}
	}
	return out
}
