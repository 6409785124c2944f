package store

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/abgdnv/productcatalog/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// breakerStore runs store calls through a circuit breaker. While the breaker is open
// calls fail fast with a store fault instead of waiting on an unhealthy database.
type breakerStore struct {
	next ProductStore
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps next with a circuit breaker. Only store faults count as failures;
// a missing product is a normal outcome. Ping bypasses the breaker so readiness sees recovery.
func NewBreakerStore(next ProductStore, cfg config.CircuitBreakerConfig, logger *slog.Logger) ProductStore {
	st := gobreaker.Settings{
		Name:        "product-store-cb",
		MaxRequests: 3,
		Interval:    cfg.OpenTimeout,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, perrors.ErrProductNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &breakerStore{next: next, cb: gobreaker.NewCircuitBreaker[any](st)}
}

func (s *breakerStore) FindAll(ctx context.Context) ([]Product, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.FindAll(ctx)
	})
	if err != nil {
		return nil, breakerError("find all", err)
	}
	return res.([]Product), nil
}

func (s *breakerStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	res, err := s.cb.Execute(func() (any, error) {
		return s.next.FindByID(ctx, id)
	})
	if err != nil {
		return nil, breakerError("find by id", err)
	}
	return res.(*Product), nil
}

func (s *breakerStore) Save(ctx context.Context, product *Product) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Save(ctx, product)
	})
	return breakerError("save", err)
}

func (s *breakerStore) Delete(ctx context.Context, product *Product) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.next.Delete(ctx, product)
	})
	return breakerError("delete", err)
}

func (s *breakerStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// breakerError turns a rejection by the breaker into a store fault and passes everything else through.
func breakerError(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return perrors.NewStoreError(op, err)
	}
	return err
}
