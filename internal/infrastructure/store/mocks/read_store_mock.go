package mocks

import (
	"sort"
	"sync"
)

// MockReadStore is an in-memory ReadStoreInterface that records lookups
// so tests can assert which collections a query touched.
type MockReadStore struct {
	mu   sync.Mutex
	data map[string]map[string]any // collection -> id -> data

	GetCalls    []LookupCall
	GetAllCalls []string
	UpdateCalls []LookupCall
}

// LookupCall records a keyed access
type LookupCall struct {
	Collection string
	ID         string
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{data: make(map[string]map[string]any)}
}

func (m *MockReadStore) Set(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collection, id, data)
}

func (m *MockReadStore) put(collection, id string, data any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	m.data[collection][id] = data
}

func (m *MockReadStore) Get(collection, id string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, LookupCall{Collection: collection, ID: id})
	data, ok := m.data[collection][id]
	return data, ok
}

// GetAll returns items ordered by id, matching the real store.
func (m *MockReadStore) GetAll(collection string) []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetAllCalls = append(m.GetAllCalls, collection)

	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.data[collection][id])
	}
	return items
}

func (m *MockReadStore) Delete(collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[collection], id)
}

func (m *MockReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls = append(m.UpdateCalls, LookupCall{Collection: collection, ID: id})

	current, existed := m.data[collection][id]
	next := updateFn(current)
	if next == nil {
		delete(m.data[collection], id)
		return existed
	}
	m.put(collection, id, next)
	return existed
}

// SetData seeds a read model without recording a call.
func (m *MockReadStore) SetData(collection, id string, data any) {
	m.Set(collection, id, data)
}
