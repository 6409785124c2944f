// Package store provides an interface for product storage operations.
package store

import "context"

// Product represents a product entity in the store.
// ID is zero until the store assigns one on the first Save.
type Product struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Map returns the plain-map form of the product.
func (p Product) Map() map[string]any {
	return map[string]any{
		"id":   p.ID,
		"name": p.Name,
	}
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Backing-store failures are reported as *errors.StoreError.
type ProductStore interface {
	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Save inserts the product when its ID is zero, assigning a new ID in place,
	// otherwise it updates the stored record's name.
	// Returns ErrProductNotFound when updating an ID the store does not hold.
	Save(ctx context.Context, product *Product) error

	// Delete removes the product.
	// Returns ErrProductNotFound if no product exists with the product's ID.
	Delete(ctx context.Context, product *Product) error

	// Ping reports whether the store can serve requests.
	Ping(ctx context.Context) error
}
