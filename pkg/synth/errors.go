package synth

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the generators.
var (
	ErrInvalidCount           = errors.New("count must be non-negative")
	ErrEmptyVendorPool        = errors.New("no vendors to draw from")
	ErrNoPurchasableMaterials = errors.New("no RAW or SEMI materials to order")
	ErrDanglingReference      = errors.New("dangling reference")
)

// GenError carries the generator operation that failed.
type GenError struct {
	Op    string // e.g. "Vendors", "PurchaseOrders"
	Field string // offending option or column, if any
	Cause error
}

// Error implements the error interface.
func (e *GenError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *GenError) Unwrap() error {
	return e.Cause
}

func invalidCount(op, field string, n int) error {
	return &GenError{Op: op, Field: field, Cause: fmt.Errorf("%w, got %d", ErrInvalidCount, n)}
}
