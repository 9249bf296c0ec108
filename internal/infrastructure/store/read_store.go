package store

import (
	"sort"
	"sync"
)

// ReadStore is an in-memory read model store
type ReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any // collection -> id -> data
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		data: make(map[string]map[string]any),
	}
}

// Set stores a read model
func (rs *ReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		rs.data[collection] = make(map[string]any)
	}
	rs.data[collection][id] = data
}

// Get retrieves a read model by id
func (rs *ReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	data, ok := rs.data[collection][id]
	return data, ok
}

// GetAll retrieves all items in a collection ordered by id
func (rs *ReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	ids := make([]string, 0, len(rs.data[collection]))
	for id := range rs.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, rs.data[collection][id])
	}
	return items
}

// Delete removes a read model
func (rs *ReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	delete(rs.data[collection], id)
}

// Update modifies a read model using an update function. A missing entry
// is passed to updateFn as nil and created from its result. A nil result
// leaves the entry absent.
func (rs *ReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		rs.data[collection] = make(map[string]any)
	}
	current, existed := rs.data[collection][id]
	next := updateFn(current)
	if next == nil {
		delete(rs.data[collection], id)
		return existed
	}
	rs.data[collection][id] = next
	return existed
}
