package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/notification"
	"github.com/example/nova-commerce/internal/readmodel"
)

func newTestProjector() (*Projector, *store.ReadStore) {
	rs := store.NewReadStore()
	return NewProjector(rs), rs
}

func makeEvent(t *testing.T, aggregateType, eventType, aggregateID string, data any) store.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return store.Event{
		ID:            "evt-" + aggregateID,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          raw,
		Timestamp:     time.Now(),
		Version:       1,
	}
}

func placed(t *testing.T, id, userID string, typ order.Type, status order.Status, total int64) store.Event {
	return makeEvent(t, order.AggregateType, order.EventOrderPlaced, id, order.OrderPlaced{
		OrderID:  id,
		UserID:   userID,
		Type:     typ,
		Status:   status,
		Total:    decimal.NewFromInt(total),
		PlacedAt: time.Now(),
	})
}

func salesReport(t *testing.T, rs *store.ReadStore) *readmodel.SalesReportReadModel {
	t.Helper()
	data, ok := rs.Get(readmodel.CollectionSales, readmodel.SalesReportID)
	require.True(t, ok)
	return data.(*readmodel.SalesReportReadModel)
}

// ============================================
// Order Event Tests
// ============================================

func TestProjector_OrderPlaced_SalesSplit(t *testing.T) {
	p, rs := newTestProjector()

	require.NoError(t, p.Project(placed(t, "#NV1001", "u1", order.TypeOnline, order.StatusPending, 528)))
	require.NoError(t, p.Project(placed(t, "#POS-1001", order.InStoreUserID, order.TypePOS, order.StatusDelivered, 324)))

	r := salesReport(t, rs)
	assert.True(t, r.OnlineRevenue.Equal(decimal.NewFromInt(528)))
	assert.True(t, r.POSRevenue.Equal(decimal.NewFromInt(324)))
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(852)))
	assert.Equal(t, 2, r.OrderCount)
	assert.Equal(t, 1, r.POSOrderCount)
	assert.Equal(t, 1, r.OnlineOrderCount)
	assert.Equal(t, 1, r.ActiveOrders, "POS orders are delivered on creation")

	data, ok := rs.Get(readmodel.CollectionOrders, "#NV1001")
	require.True(t, ok)
	assert.Equal(t, "pending", data.(*readmodel.OrderSummaryReadModel).Status)
}

func TestProjector_OrderPlaced_CustomerActivity(t *testing.T) {
	p, rs := newTestProjector()

	require.NoError(t, p.Project(placed(t, "#NV1001", "u1", order.TypeOnline, order.StatusPending, 100)))
	require.NoError(t, p.Project(placed(t, "#NV1002", "u1", order.TypeOnline, order.StatusPending, 50)))
	require.NoError(t, p.Project(placed(t, "#NV1003", order.GuestUserID, order.TypeOnline, order.StatusPending, 70)))

	data, ok := rs.Get(readmodel.CollectionCustomers, "u1")
	require.True(t, ok)
	c := data.(*readmodel.CustomerActivityReadModel)
	assert.Equal(t, 2, c.OrderCount)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(150)))
	_, ok = rs.Get(readmodel.CollectionCustomers, order.GuestUserID)
	assert.False(t, ok)
}

func TestProjector_OrderStatusChanged_ActiveOrders(t *testing.T) {
	p, rs := newTestProjector()
	require.NoError(t, p.Project(placed(t, "#NV1001", "u1", order.TypeOnline, order.StatusPending, 100)))

	change := func(from, to order.Status) store.Event {
		return makeEvent(t, order.AggregateType, order.EventOrderStatusChanged, "#NV1001", order.OrderStatusChanged{
			OrderID: "#NV1001", From: from, To: to, ChangedAt: time.Now(),
		})
	}
	require.NoError(t, p.Project(change(order.StatusPending, order.StatusProcessing)))
	assert.Equal(t, 1, salesReport(t, rs).ActiveOrders)

	require.NoError(t, p.Project(change(order.StatusProcessing, order.StatusCancelled)))
	assert.Equal(t, 0, salesReport(t, rs).ActiveOrders)
	assert.True(t, salesReport(t, rs).TotalRevenue.Equal(decimal.NewFromInt(100)), "revenue keeps cancelled orders")

	data, _ := rs.Get(readmodel.CollectionOrders, "#NV1001")
	assert.Equal(t, "cancelled", data.(*readmodel.OrderSummaryReadModel).Status)
}

func TestProjector_OrderStatusChanged_UnknownOrderIgnored(t *testing.T) {
	p, rs := newTestProjector()

	err := p.Project(makeEvent(t, order.AggregateType, order.EventOrderStatusChanged, "#NV9", order.OrderStatusChanged{
		OrderID: "#NV9", From: order.StatusPending, To: order.StatusProcessing,
	}))

	require.NoError(t, err)
	assert.Empty(t, rs.GetAll(readmodel.CollectionOrders))
}

// ============================================
// Inventory / Shift Event Tests
// ============================================

func TestProjector_StockEvents(t *testing.T) {
	p, rs := newTestProjector()

	require.NoError(t, p.Project(makeEvent(t, inventory.AggregateType, inventory.EventStockDeducted, "p4", inventory.StockDeducted{
		ProductID: "p4", OrderID: "#POS-1001", Quantity: 10, Before: 5, After: 0, Oversold: true,
	})))

	data, ok := rs.Get(readmodel.CollectionInventory, "p4")
	require.True(t, ok)
	inv := data.(*readmodel.InventoryReadModel)
	assert.Equal(t, 0, inv.Stock)
	assert.True(t, inv.LowStock)
	assert.Equal(t, 5, inv.Oversold)
	assert.Equal(t, "#POS-1001", inv.LastOrderID)

	require.NoError(t, p.Project(makeEvent(t, inventory.AggregateType, inventory.EventStockAdded, "p4", inventory.StockAdded{
		ProductID: "p4", Quantity: 20, Before: 0, After: 20,
	})))
	data, _ = rs.Get(readmodel.CollectionInventory, "p4")
	assert.Equal(t, 20, data.(*readmodel.InventoryReadModel).Stock)
	assert.False(t, data.(*readmodel.InventoryReadModel).LowStock)
}

func TestProjector_ShiftLifecycle(t *testing.T) {
	p, rs := newTestProjector()
	opened := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, p.Project(makeEvent(t, shift.AggregateType, shift.EventShiftOpened, "SHT-1", shift.ShiftOpened{
		ShiftID: "SHT-1", StaffID: "s2", OpenedAt: opened,
	})))
	require.NoError(t, p.Project(makeEvent(t, shift.AggregateType, shift.EventShiftSaleRecorded, "SHT-1", shift.ShiftSaleRecorded{
		ShiftID: "SHT-1", StaffID: "s2", Amount: decimal.NewFromInt(324), TotalSales: decimal.NewFromInt(324),
	})))
	require.NoError(t, p.Project(makeEvent(t, shift.AggregateType, shift.EventShiftClosed, "SHT-1", shift.ShiftClosed{
		ShiftID: "SHT-1", StaffID: "s2", TotalSales: decimal.NewFromInt(324), ClosedAt: opened.Add(8 * time.Hour),
	})))

	data, ok := rs.Get(readmodel.CollectionShifts, "SHT-1")
	require.True(t, ok)
	s := data.(*readmodel.ShiftReadModel)
	assert.Equal(t, "closed", s.Status)
	assert.Equal(t, 1, s.SaleCount)
	assert.True(t, s.TotalSales.Equal(decimal.NewFromInt(324)))
	require.NotNil(t, s.EndTime)
	assert.True(t, s.EndTime.After(s.StartTime))
}

// ============================================
// User / Notification Event Tests
// ============================================

func TestProjector_LoginAndNotifications(t *testing.T) {
	p, rs := newTestProjector()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.Project(makeEvent(t, user.AggregateType, user.EventUserLoggedIn, "u1", user.UserLoggedIn{UserID: "u1", LoggedAt: at})))
	require.NoError(t, p.Project(makeEvent(t, notification.AggregateType, notification.EventNotificationCreated, "n1", notification.NotificationCreated{
		NotificationID: "n1", UserID: "u1",
	})))

	data, ok := rs.Get(readmodel.CollectionCustomers, "u1")
	require.True(t, ok)
	c := data.(*readmodel.CustomerActivityReadModel)
	require.NotNil(t, c.LastLoginAt)
	assert.True(t, c.LastLoginAt.Equal(at))
	assert.Equal(t, 1, c.NotificationCount)
}

// ============================================
// Transport Tests
// ============================================

func TestProjector_HandleEvent_FromKafkaPayload(t *testing.T) {
	p, rs := newTestProjector()
	value, err := json.Marshal(placed(t, "#NV1001", "u1", order.TypeOnline, order.StatusPending, 349))
	require.NoError(t, err)

	require.NoError(t, p.HandleEvent(context.Background(), []byte("#NV1001"), value))

	assert.Equal(t, 1, salesReport(t, rs).OrderCount)
}

func TestProjector_HandleEvent_InvalidJSON(t *testing.T) {
	p, _ := newTestProjector()

	err := p.HandleEvent(context.Background(), nil, []byte("not json"))

	assert.Error(t, err)
}

func TestProjector_Apply_BadPayloadIsLogged(t *testing.T) {
	p, rs := newTestProjector()
	bad := store.Event{AggregateType: order.AggregateType, EventType: order.EventOrderPlaced, Data: json.RawMessage(`{"total":"abc"}`)}

	assert.NotPanics(t, func() { p.Apply(context.Background(), bad) })
	assert.Empty(t, rs.GetAll(readmodel.CollectionOrders))
}

func TestProjector_UnknownAggregateIgnored(t *testing.T) {
	p, rs := newTestProjector()

	err := p.Project(makeEvent(t, "Cart", "ItemAddedToCart", "cart-u1", map[string]string{"x": "y"}))

	require.NoError(t, err)
	assert.Empty(t, rs.GetAll(readmodel.CollectionSales))
}
