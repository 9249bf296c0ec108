package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/nova-commerce/internal/domain/cart"
	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/domain/coupon"
	"github.com/example/nova-commerce/internal/domain/inventory"
	"github.com/example/nova-commerce/internal/domain/order"
	"github.com/example/nova-commerce/internal/domain/review"
	"github.com/example/nova-commerce/internal/domain/shift"
	"github.com/example/nova-commerce/internal/domain/user"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/notification"
)

var errInjected = errors.New("injected append failure")

// faultyEventStore fails Append for one event type.
type faultyEventStore struct {
	*store.EventStore
	mu     sync.Mutex
	failOn string
}

func (f *faultyEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	f.mu.Lock()
	fail := f.failOn != "" && f.failOn == eventType
	f.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return f.EventStore.Append(ctx, aggregateID, aggregateType, eventType, data)
}

func (f *faultyEventStore) FailOn(eventType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn = eventType
}

type fixture struct {
	h         *Handler
	events    *faultyEventStore
	catalog   *catalog.Store
	coupons   *coupon.Registry
	orders    *order.Ledger
	shifts    *shift.Ledger
	users     *user.Directory
	inbox     *notification.Inbox
	mu        sync.Mutex
	delivered []store.Event
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	generator notification.Generator
	policy    order.TransitionPolicy
	timeout   time.Duration
	products  []catalog.Product
}

func withProducts(products []catalog.Product) fixtureOption {
	return func(c *fixtureConfig) { c.products = products }
}

func withGenerator(g notification.Generator) fixtureOption {
	return func(c *fixtureConfig) { c.generator = g }
}

func withPolicy(p order.TransitionPolicy) fixtureOption {
	return func(c *fixtureConfig) { c.policy = p }
}

func withTimeout(d time.Duration) fixtureOption {
	return func(c *fixtureConfig) { c.timeout = d }
}

// sequentialIDs hands out #NV1001, #NV1002 ... and #POS-1001 ...
func sequentialIDs() order.IDGenerator {
	var online, pos int
	return func(t order.Type) string {
		if t == order.TypePOS {
			pos++
			return fmt.Sprintf("#POS-%d", 1000+pos)
		}
		online++
		return fmt.Sprintf("#NV%d", 1000+online)
	}
}

func newFixture(t testing.TB, opts ...fixtureOption) *fixture {
	t.Helper()
	f, err := buildFixture(opts...)
	require.NoError(t, err)
	return f
}

func buildFixture(opts ...fixtureOption) (*fixture, error) {
	cfg := fixtureConfig{
		generator: notification.TemplateGenerator{},
		policy:    order.StrictPolicy{},
		timeout:   time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	seed, err := catalog.DefaultSeed()
	if err != nil {
		return nil, err
	}
	if cfg.products != nil {
		seed.Products = cfg.products
	}

	f := &fixture{events: &faultyEventStore{EventStore: store.NewEventStore(nil)}}
	f.events.Subscribe(func(_ context.Context, e store.Event) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.delivered = append(f.delivered, e)
	})

	f.catalog = catalog.NewStore(seed.Products, seed.Categories)
	f.coupons = coupon.NewRegistry(f.events, coupon.FromSeed(seed.Coupons))
	f.orders = order.NewLedger(f.events, order.WithPolicy(cfg.policy), order.WithIDGenerator(sequentialIDs()))
	f.shifts = shift.NewLedger(f.events, time.Now)
	f.users = user.NewDirectory(f.events)
	f.inbox = notification.NewInbox(f.events)

	for _, acc := range []user.Account{
		{ID: "u1", Name: "John Member", Email: "john@example.com", Role: user.RoleCustomer, LoyaltyPoints: 450},
		{ID: "u2", Name: "Sarah Loyalty", Email: "sarah@example.com", Role: user.RoleCustomer, LoyaltyPoints: 120},
		{ID: "s1", Name: "Store Manager", Email: "manager@nova.example", Role: user.RoleManager},
		{ID: "s2", Name: "Front-end Cashier", Email: "cashier@nova.example", Role: user.RoleCashier},
	} {
		if err := f.users.Add(acc); err != nil {
			return nil, err
		}
	}

	f.h = NewHandler(Deps{
		Catalog:   f.catalog,
		Carts:     cart.NewService(f.events),
		Coupons:   f.coupons,
		Orders:    f.orders,
		Inventory: inventory.NewAdjuster(f.catalog, f.events),
		Shifts:    f.shifts,
		Reviews:   review.NewAggregator(f.catalog, f.events),
		Users:     f.users,
		Inbox:     f.inbox,
		Composer:  notification.NewComposer(cfg.generator, cfg.timeout),
		Events:    f.events,
	})
	return f, nil
}

func (f *fixture) deliveredTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, len(f.delivered))
	for i, e := range f.delivered {
		types[i] = e.EventType
	}
	return types
}

func (f *fixture) resetDelivered() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = nil
}

func (f *fixture) stock(t testing.TB, productID string) int {
	t.Helper()
	p, err := f.catalog.Get(productID)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) setStock(t testing.TB, productID string, stock int) {
	t.Helper()
	_, err := f.catalog.Update(productID, func(p *catalog.Product) error {
		p.Stock = stock
		return nil
	})
	require.NoError(t, err)
}
