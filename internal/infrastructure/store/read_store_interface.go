package store

// ReadStoreInterface defines the interface for read model storage
type ReadStoreInterface interface {
	// Set stores a read model
	Set(collection, id string, data any)

	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves all items in a collection ordered by id
	GetAll(collection string) []any

	// Delete removes a read model
	Delete(collection, id string)

	// Update upserts a read model through an update function and reports
	// whether the entry existed before
	Update(collection, id string, updateFn func(current any) any) bool
}
