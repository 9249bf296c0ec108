package app

import (
	"fmt"
	"time"

	"github.com/example/nova-commerce/internal/command"
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
	"github.com/example/nova-commerce/internal/projection"
	"github.com/example/nova-commerce/internal/query"
)

// Options tune how the services are assembled. The zero value is a
// self-contained in-memory deployment.
type Options struct {
	Publisher     store.Publisher
	Generator     notification.Generator
	NotifyTimeout time.Duration
	Policy        order.TransitionPolicy
	OrderIDs      order.IDGenerator
	Clock         func() time.Time
}

// App is one running NOVA state engine.
type App struct {
	Events    *store.EventStore
	ReadStore *store.ReadStore
	Catalog   *catalog.Store
	Users     *user.Directory
	Commands  *command.Handler
	Queries   *query.Handler
	Projector *projection.Projector
}

// New builds every service from seed and subscribes the projector so read
// models follow committed events.
func New(seed *catalog.Seed, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Policy == nil {
		opts.Policy = order.StrictPolicy{}
	}

	events := store.NewEventStore(opts.Publisher)
	readStore := store.NewReadStore()
	projector := projection.NewProjector(readStore)
	events.Subscribe(projector.Apply)

	catalogStore := catalog.NewStore(seed.Products, seed.Categories)
	users := user.NewDirectory(events)
	if err := users.Seed(seed.Accounts); err != nil {
		return nil, fmt.Errorf("failed to seed accounts: %w", err)
	}

	ledgerOpts := []order.Option{order.WithPolicy(opts.Policy), order.WithClock(opts.Clock)}
	if opts.OrderIDs != nil {
		ledgerOpts = append(ledgerOpts, order.WithIDGenerator(opts.OrderIDs))
	}

	carts := cart.NewService(events)
	orders := order.NewLedger(events, ledgerOpts...)
	shifts := shift.NewLedger(events, opts.Clock)
	inbox := notification.NewInbox(events)
	codes := coupon.NewRegistry(events, coupon.FromSeed(seed.Coupons))

	commands := command.NewHandler(command.Deps{
		Catalog:   catalogStore,
		Carts:     carts,
		Coupons:   codes,
		Orders:    orders,
		Inventory: inventory.NewAdjuster(catalogStore, events),
		Shifts:    shifts,
		Reviews:   review.NewAggregator(catalogStore, events),
		Users:     users,
		Inbox:     inbox,
		Composer:  notification.NewComposer(opts.Generator, opts.NotifyTimeout),
		Events:    events,
	})

	queries := query.NewHandler(readStore, query.Sources{
		Catalog: catalogStore,
		Carts:   carts,
		Coupons: commands,
		Codes:   codes,
		Orders:  orders,
		Shifts:  shifts,
		Users:   users,
		Inbox:   inbox,
	})

	return &App{
		Events:    events,
		ReadStore: readStore,
		Catalog:   catalogStore,
		Users:     users,
		Commands:  commands,
		Queries:   queries,
		Projector: projector,
	}, nil
}
