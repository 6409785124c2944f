// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned when no product exists with the requested id.
var ErrProductNotFound = errors.New("product not found")

// ErrNameNotProvided is returned when a product is created or renamed without a name.
var ErrNameNotProvided = errors.New("product name not provided")

// ErrStoreFault matches every *StoreError via errors.Is.
var ErrStoreFault = errors.New("store fault")

// StoreError reports a failure of the backing store (connectivity, constraint violation,
// failed commit). It is never used for a missing record.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a store fault raised by operation op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStoreFault.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreFault
}
