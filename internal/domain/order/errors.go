package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel errors for order operations.
var (
	// ErrNotFound is returned when no order with the requested ID exists.
	ErrNotFound = errors.New("order not found")

	// ErrForbidden is returned when the caller is neither the order's owner
	// nor an admin.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyItems is returned when a create or update request carries no items.
	ErrEmptyItems = errors.New("items required")
)

// InvalidQuantityError indicates a requested item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// ProductNotFoundError indicates a requested product does not exist in the
// inventory catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError indicates the inventory cannot cover the requested
// quantity of a product.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s)", e.ProductName, e.ProductID)
}

// InvalidTransitionError indicates an illegal status transition. It carries
// both the source and the attempted target status for diagnostics.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// InvalidStatusError indicates an operation attempted in the wrong lifecycle
// phase, e.g. updating a shipped order or deleting one that is not cancelled.
type InvalidStatusError struct {
	Op     string
	Status Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("cannot %s order in status %s", e.Op, e.Status)
}
