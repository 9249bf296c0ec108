package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/domain/catalog"
	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const AggregateType = "Cart"

var (
	ErrInvalidOwner  = errors.New("owner_id is required")
	ErrLineNotFound  = errors.New("cart line not found")
	ErrProductNeeded = errors.New("product_id is required")
)

// Service keeps one cart per owner. An owner is a signed-in user id or a
// guest session id.
type Service struct {
	mu         sync.RWMutex
	carts      map[string]*Cart
	eventStore store.EventStoreInterface
	log        *logrus.Entry
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{
		carts:      make(map[string]*Cart),
		eventStore: es,
		log:        logger.For("cart"),
	}
}

// GetCartID returns the cart ID for an owner
func GetCartID(ownerID string) string {
	return "cart-" + ownerID
}

func (s *Service) cartFor(ownerID string) *Cart {
	c, ok := s.carts[ownerID]
	if !ok {
		c = New(GetCartID(ownerID), ownerID)
		s.carts[ownerID] = c
	}
	return c
}

// Get returns a copy of the owner's cart, empty if none exists yet.
func (s *Service) Get(ownerID string) *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.carts[ownerID]; ok {
		return c.clone()
	}
	return New(GetCartID(ownerID), ownerID)
}

// AddItem adds one unit of product with the given selection.
func (s *Service) AddItem(ctx context.Context, ownerID string, p catalog.Product, sel Selection) (Line, error) {
	if ownerID == "" {
		return Line{}, ErrInvalidOwner
	}
	if p.ID == "" {
		return Line{}, ErrProductNeeded
	}
	if err := sel.Validate(p); err != nil {
		return Line{}, err
	}

	s.mu.Lock()
	c := s.cartFor(ownerID)
	if i := c.find(KeyOf(p.ID, sel)); i >= 0 && c.lines[i].Quantity >= MaxQuantity {
		s.mu.Unlock()
		return Line{}, fmt.Errorf("%w: %s", ErrQuantityTooLarge, p.ID)
	}
	line := c.AddItem(p, sel)
	s.mu.Unlock()

	event := ItemAddedToCart{
		CartID:           c.ID,
		OwnerID:          ownerID,
		ProductID:        p.ID,
		SelectedVariants: sel.Clone(),
		Quantity:         line.Quantity,
		Price:            line.Product.Price,
		AddedAt:          time.Now(),
	}
	if _, err := s.eventStore.Append(ctx, c.ID, AggregateType, EventItemAdded, event); err != nil {
		return Line{}, fmt.Errorf("failed to record item added: %w", err)
	}

	s.log.WithFields(logrus.Fields{"owner": ownerID, "product_id": p.ID, "quantity": line.Quantity}).Debug("item added")
	return line, nil
}

// SetQuantity sets a line's quantity; q < 1 removes the line.
func (s *Service) SetQuantity(ctx context.Context, ownerID, productID string, sel Selection, q int) error {
	if q > MaxQuantity {
		return fmt.Errorf("%w: %s", ErrQuantityTooLarge, productID)
	}

	s.mu.Lock()
	c := s.cartFor(ownerID)
	found := c.SetQuantity(KeyOf(productID, sel), q)
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %s", ErrLineNotFound, productID)
	}

	if q < 1 {
		return s.recordRemoved(ctx, c.ID, ownerID, productID, sel)
	}
	event := CartQuantityChanged{
		CartID:           c.ID,
		OwnerID:          ownerID,
		ProductID:        productID,
		SelectedVariants: sel.Clone(),
		Quantity:         q,
		ChangedAt:        time.Now(),
	}
	if _, err := s.eventStore.Append(ctx, c.ID, AggregateType, EventQuantityChanged, event); err != nil {
		return fmt.Errorf("failed to record quantity change: %w", err)
	}
	return nil
}

// RemoveLine drops the line matching product and selection.
func (s *Service) RemoveLine(ctx context.Context, ownerID, productID string, sel Selection) error {
	s.mu.Lock()
	c := s.cartFor(ownerID)
	found := c.RemoveLine(KeyOf(productID, sel))
	s.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %s", ErrLineNotFound, productID)
	}
	return s.recordRemoved(ctx, c.ID, ownerID, productID, sel)
}

func (s *Service) recordRemoved(ctx context.Context, cartID, ownerID, productID string, sel Selection) error {
	event := ItemRemovedFromCart{
		CartID:           cartID,
		OwnerID:          ownerID,
		ProductID:        productID,
		SelectedVariants: sel.Clone(),
		RemovedAt:        time.Now(),
	}
	if _, err := s.eventStore.Append(ctx, cartID, AggregateType, EventItemRemoved, event); err != nil {
		return fmt.Errorf("failed to record item removed: %w", err)
	}
	return nil
}

// Clear empties the owner's cart.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	c := s.cartFor(ownerID)
	c.Clear()
	s.mu.Unlock()

	event := CartCleared{CartID: c.ID, OwnerID: ownerID, ClearedAt: time.Now()}
	if _, err := s.eventStore.Append(ctx, c.ID, AggregateType, EventCartCleared, event); err != nil {
		return fmt.Errorf("failed to record cart cleared: %w", err)
	}
	return nil
}

// Snapshot captures every cart for a later Restore.
func (s *Service) Snapshot() map[string]*Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*Cart, len(s.carts))
	for id, c := range s.carts {
		out[id] = c.clone()
	}
	return out
}

func (s *Service) Restore(carts map[string]*Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = make(map[string]*Cart, len(carts))
	for id, c := range carts {
		s.carts[id] = c.clone()
	}
}
