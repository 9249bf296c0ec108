package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Store is the in-memory product catalog. Products keep their seed order.
type Store struct {
	mu         sync.RWMutex
	products   []Product
	index      map[string]int
	categories []Category
}

func NewStore(products []Product, categories []Category) *Store {
	s := &Store{categories: append([]Category(nil), categories...)}
	s.setProducts(products)
	return s
}

func (s *Store) setProducts(products []Product) {
	s.products = make([]Product, len(products))
	s.index = make(map[string]int, len(products))
	for i, p := range products {
		s.products[i] = p.Clone()
		s.index[p.ID] = i
	}
}

// List returns every product in catalog order.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.products)
}

// Get returns a copy of the product.
func (s *Store) Get(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return s.products[i].Clone(), nil
}

// Search matches the query case-insensitively against product names.
// An empty query returns the whole catalog.
func (s *Store) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q == "" {
		return cloneAll(s.products)
	}
	var out []Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ByCategory returns products whose category slug matches.
func (s *Store) ByCategory(slug string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, slug) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Category(nil), s.categories...)
}

// Update mutates one product in place through fn and returns the result.
// fn runs under the store lock and must not call back into the store.
func (s *Store) Update(id string, fn func(p *Product) error) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	p := s.products[i].Clone()
	if err := fn(&p); err != nil {
		return Product{}, err
	}
	if p.Stock < 0 {
		return Product{}, fmt.Errorf("%w: negative stock for %s", ErrInvalidProduct, id)
	}
	p.ID = id
	s.products[i] = p
	return p.Clone(), nil
}

// Snapshot captures the catalog for a later Restore.
func (s *Store) Snapshot() []Product {
	return s.List()
}

// Restore replaces the catalog with a snapshot.
func (s *Store) Restore(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setProducts(products)
}

func cloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
