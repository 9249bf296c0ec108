package projection

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
	"github.com/example/nova-commerce/internal/notification"
	"github.com/example/nova-commerce/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
	log       *logrus.Entry
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore, log: logger.For("projector")}
}

// HandleEvent processes an event from Kafka
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return p.Project(event)
}

// Apply is the in-process subscriber form of Project. Errors are logged.
func (p *Projector) Apply(ctx context.Context, event store.Event) {
	if err := p.Project(event); err != nil {
		p.log.WithFields(logrus.Fields{
			"event_type":   event.EventType,
			"aggregate_id": event.AggregateID,
		}).WithError(err).Error("Failed to project event")
	}
}

// Project folds one event into the read store. Stored models are never
// mutated after Set; updates replace them with a modified copy.
func (p *Projector) Project(event store.Event) error {
	p.log.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"aggregate":  event.AggregateType,
	}).Debug("Received event")

	switch event.AggregateType {
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case inventory.AggregateType:
		return p.handleInventoryEvent(event)
	case shift.AggregateType:
		return p.handleShiftEvent(event)
	case user.AggregateType:
		return p.handleUserEvent(event)
	case notification.AggregateType:
		return p.handleNotificationEvent(event)
	}
	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := event.Decode(&e); err != nil {
			return err
		}
		items := 0
		for _, it := range e.Items {
			items += it.Quantity
		}
		p.readStore.Set(readmodel.CollectionOrders, e.OrderID, &readmodel.OrderSummaryReadModel{
			ID:            e.OrderID,
			UserID:        e.UserID,
			Type:          string(e.Type),
			Status:        string(e.Status),
			Total:         e.Total,
			ItemCount:     items,
			PaymentMethod: string(e.PaymentMethod),
			StaffID:       e.StaffID,
			PlacedAt:      e.PlacedAt,
			UpdatedAt:     e.PlacedAt,
		})

		p.updateSales(func(r *readmodel.SalesReportReadModel) {
			r.OrderCount++
			if e.Type == order.TypePOS {
				r.POSOrderCount++
				r.POSRevenue = r.POSRevenue.Add(e.Total)
			} else {
				r.OnlineOrderCount++
				r.OnlineRevenue = r.OnlineRevenue.Add(e.Total)
			}
			r.TotalRevenue = r.POSRevenue.Add(r.OnlineRevenue)
			if e.Status.IsActive() {
				r.ActiveOrders++
			}
			r.UpdatedAt = e.PlacedAt
		})

		if e.UserID != order.GuestUserID && e.UserID != order.InStoreUserID {
			p.updateCustomer(e.UserID, func(c *readmodel.CustomerActivityReadModel) {
				c.OrderCount++
				c.TotalSpent = c.TotalSpent.Add(e.Total)
			})
		}

	case order.EventOrderStatusChanged:
		var e order.OrderStatusChanged
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.CollectionOrders, e.OrderID, func(current any) any {
			if current == nil {
				return nil
			}
			o := *current.(*readmodel.OrderSummaryReadModel)
			o.Status = string(e.To)
			o.UpdatedAt = e.ChangedAt
			return &o
		})
		if e.From.IsActive() != e.To.IsActive() {
			p.updateSales(func(r *readmodel.SalesReportReadModel) {
				if e.To.IsActive() {
					r.ActiveOrders++
				} else {
					r.ActiveOrders--
				}
				r.UpdatedAt = e.ChangedAt
			})
		}
	}
	return nil
}

func (p *Projector) handleInventoryEvent(event store.Event) error {
	switch event.EventType {
	case inventory.EventStockDeducted:
		var e inventory.StockDeducted
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.updateInventory(e.ProductID, func(inv *readmodel.InventoryReadModel) {
			inv.Stock = e.After
			inv.LastOrderID = e.OrderID
			if e.Oversold {
				inv.Oversold += e.Quantity - e.Before
			}
			inv.UpdatedAt = e.DeductedAt
		})

	case inventory.EventStockAdded:
		var e inventory.StockAdded
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.updateInventory(e.ProductID, func(inv *readmodel.InventoryReadModel) {
			inv.Stock = e.After
			inv.UpdatedAt = e.AddedAt
		})
	}
	return nil
}

func (p *Projector) handleShiftEvent(event store.Event) error {
	switch event.EventType {
	case shift.EventShiftOpened:
		var e shift.ShiftOpened
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.readStore.Set(readmodel.CollectionShifts, e.ShiftID, &readmodel.ShiftReadModel{
			ID:         e.ShiftID,
			StaffID:    e.StaffID,
			Status:     string(shift.StatusActive),
			TotalSales: decimal.Zero,
			StartTime:  e.OpenedAt,
		})

	case shift.EventShiftSaleRecorded:
		var e shift.ShiftSaleRecorded
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.CollectionShifts, e.ShiftID, func(current any) any {
			if current == nil {
				return nil
			}
			s := *current.(*readmodel.ShiftReadModel)
			s.TotalSales = e.TotalSales
			s.SaleCount++
			return &s
		})

	case shift.EventShiftClosed:
		var e shift.ShiftClosed
		if err := event.Decode(&e); err != nil {
			return err
		}
		p.readStore.Update(readmodel.CollectionShifts, e.ShiftID, func(current any) any {
			if current == nil {
				return nil
			}
			s := *current.(*readmodel.ShiftReadModel)
			s.Status = string(shift.StatusClosed)
			s.TotalSales = e.TotalSales
			closedAt := e.ClosedAt
			s.EndTime = &closedAt
			return &s
		})
	}
	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	if event.EventType != user.EventUserLoggedIn {
		return nil
	}
	var e user.UserLoggedIn
	if err := event.Decode(&e); err != nil {
		return err
	}
	p.updateCustomer(e.UserID, func(c *readmodel.CustomerActivityReadModel) {
		at := e.LoggedAt
		c.LastLoginAt = &at
	})
	return nil
}

func (p *Projector) handleNotificationEvent(event store.Event) error {
	if event.EventType != notification.EventNotificationCreated {
		return nil
	}
	var e notification.NotificationCreated
	if err := event.Decode(&e); err != nil {
		return err
	}
	p.updateCustomer(e.UserID, func(c *readmodel.CustomerActivityReadModel) {
		c.NotificationCount++
	})
	return nil
}

func (p *Projector) updateSales(fn func(r *readmodel.SalesReportReadModel)) {
	p.readStore.Update(readmodel.CollectionSales, readmodel.SalesReportID, func(current any) any {
		var r readmodel.SalesReportReadModel
		if cur, ok := current.(*readmodel.SalesReportReadModel); ok {
			r = *cur
		}
		fn(&r)
		return &r
	})
}

func (p *Projector) updateInventory(productID string, fn func(inv *readmodel.InventoryReadModel)) {
	p.readStore.Update(readmodel.CollectionInventory, productID, func(current any) any {
		inv := readmodel.InventoryReadModel{ProductID: productID}
		if cur, ok := current.(*readmodel.InventoryReadModel); ok {
			inv = *cur
		}
		fn(&inv)
		inv.LowStock = inv.Stock < inventory.LowStockThreshold
		return &inv
	})
}

func (p *Projector) updateCustomer(userID string, fn func(c *readmodel.CustomerActivityReadModel)) {
	p.readStore.Update(readmodel.CollectionCustomers, userID, func(current any) any {
		c := readmodel.CustomerActivityReadModel{UserID: userID}
		if cur, ok := current.(*readmodel.CustomerActivityReadModel); ok {
			c = *cur
		}
		fn(&c)
		return &c
	})
}
