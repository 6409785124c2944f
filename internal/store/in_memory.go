package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
)

// inMemory implements ProductStore using an in-memory map.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
}

// NewInMemoryStore creates a new instance of ProductStore holding the given products.
func NewInMemoryStore(seed ...Product) ProductStore {
	s := &inMemory{
		products: make(map[int64]Product, len(seed)),
	}
	for _, p := range seed {
		s.products[p.ID] = p
	}
	return s
}

// SeedProducts returns the catalog the in-memory store starts with when seeding is enabled.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "Product 1"},
		{ID: 2, Name: "Product 2"},
	}
}

// FindAll retrieves all products ordered by ID.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, id := range slices.Sorted(maps.Keys(s.products)) {
		list = append(list, s.products[id])
	}
	return list, nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// Save inserts a new product with ID max(existing)+1, or renames an existing one.
func (s *inMemory) Save(_ context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == 0 {
		product.ID = s.nextID()
		s.products[product.ID] = *product
		return nil
	}

	stored, ok := s.products[product.ID]
	if !ok {
		return perrors.ErrProductNotFound
	}
	stored.Name = product.Name
	s.products[product.ID] = stored
	return nil
}

// Delete deletes a product by its ID.
func (s *inMemory) Delete(_ context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, product.ID)
	return nil
}

// Ping always succeeds.
func (s *inMemory) Ping(_ context.Context) error {
	return nil
}

// nextID must be called with the write lock held.
func (s *inMemory) nextID() int64 {
	var maxID int64
	for id := range s.products {
		maxID = max(maxID, id)
	}
	return maxID + 1
}
