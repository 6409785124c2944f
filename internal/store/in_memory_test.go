package store

import (
	"context"
	"fmt"
	"testing"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_InMemory_FindAll(t *testing.T) {
	testCases := []struct {
		name     string
		seed     []Product
		expected []Product
	}{
		{
			name:     "Success - seeded products",
			seed:     SeedProducts(),
			expected: []Product{{ID: 1, Name: "Product 1"}, {ID: 2, Name: "Product 2"}},
		},
		{
			name:     "Success - empty store",
			seed:     nil,
			expected: []Product{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewInMemoryStore(tc.seed...)
			// when
			list, err := s.FindAll(context.Background())
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expected, list)
		})
	}
}

func Test_InMemory_FindByID(t *testing.T) {
	s := NewInMemoryStore(SeedProducts()...)

	found, err := s.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, &Product{ID: 2, Name: "Product 2"}, found)

	_, err = s.FindByID(context.Background(), 3)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
}

func Test_InMemory_FindByID_ReturnsCopy(t *testing.T) {
	s := NewInMemoryStore(SeedProducts()...)

	found, err := s.FindByID(context.Background(), 1)
	require.NoError(t, err)
	found.Name = "changed without save"

	again, err := s.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Product 1", again.Name)
}

func Test_InMemory_Save(t *testing.T) {
	testCases := []struct {
		name        string
		seed        []Product
		product     Product
		expectedID  int64
		expectError error
	}{
		{
			name:       "Insert - assigns max id plus one",
			seed:       SeedProducts(),
			product:    Product{Name: "Widget"},
			expectedID: 3,
		},
		{
			name:       "Insert - first id in empty store",
			product:    Product{Name: "Widget"},
			expectedID: 1,
		},
		{
			name:       "Insert - gaps are not reused below max",
			seed:       []Product{{ID: 7, Name: "Seven"}, {ID: 2, Name: "Two"}},
			product:    Product{Name: "Widget"},
			expectedID: 8,
		},
		{
			name:       "Update - renames existing product",
			seed:       SeedProducts(),
			product:    Product{ID: 2, Name: "Renamed"},
			expectedID: 2,
		},
		{
			name:        "Update - unknown id",
			seed:        SeedProducts(),
			product:     Product{ID: 42, Name: "Ghost"},
			expectError: perrors.ErrProductNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewInMemoryStore(tc.seed...)
			product := tc.product
			// when
			err := s.Save(context.Background(), &product)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, product.ID)
			stored, err := s.FindByID(context.Background(), product.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.product.Name, stored.Name)
		})
	}
}

func Test_InMemory_Delete(t *testing.T) {
	s := NewInMemoryStore(SeedProducts()...)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, &Product{ID: 1}))

	_, err := s.FindByID(ctx, 1)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	assert.ErrorIs(t, s.Delete(ctx, &Product{ID: 1}), perrors.ErrProductNotFound)

	list, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Product{{ID: 2, Name: "Product 2"}}, list)
}

func Test_InMemory_ConcurrentInsertsGetUniqueIDs(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	const workers = 50

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			return s.Save(ctx, &Product{Name: fmt.Sprintf("Product %d", i)})
		})
	}
	require.NoError(t, g.Wait())

	list, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, workers)
	for i, p := range list {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func Test_Product_Map(t *testing.T) {
	p := Product{ID: 3, Name: "Widget"}
	assert.Equal(t, map[string]any{"id": int64(3), "name": "Widget"}, p.Map())
}
