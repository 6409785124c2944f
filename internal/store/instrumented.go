package store

import (
	"context"
	"errors"
	"time"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/pkg/metrics"
)

// instrumented decorates a ProductStore with Prometheus metrics.
type instrumented struct {
	next    ProductStore
	metrics *metrics.Metrics
	backend string
}

// NewInstrumentedStore wraps next so that every operation is counted and timed under the given backend label.
func NewInstrumentedStore(next ProductStore, m *metrics.Metrics, backend string) ProductStore {
	return &instrumented{next: next, metrics: m, backend: backend}
}

func (s *instrumented) FindAll(ctx context.Context) ([]Product, error) {
	start := time.Now()
	products, err := s.next.FindAll(ctx)
	s.observe("find_all", start, err)
	return products, err
}

func (s *instrumented) FindByID(ctx context.Context, id int64) (*Product, error) {
	start := time.Now()
	product, err := s.next.FindByID(ctx, id)
	s.observe("find_by_id", start, err)
	return product, err
}

func (s *instrumented) Save(ctx context.Context, product *Product) error {
	start := time.Now()
	err := s.next.Save(ctx, product)
	s.observe("save", start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, product *Product) error {
	start := time.Now()
	err := s.next.Delete(ctx, product)
	s.observe("delete", start, err)
	return err
}

func (s *instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *instrumented) observe(operation string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	s.metrics.ObserveStore(operation, s.backend, status, time.Since(start))
}
