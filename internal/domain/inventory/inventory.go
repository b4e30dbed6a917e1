// Package inventory defines the contract the order service requires from the
// remote inventory collaborator. It carries no logic of its own.
package inventory

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when the catalog has no product with the
// requested ID.
var ErrProductNotFound = errors.New("product not found")

// Product is a catalog entry as reported by the inventory service.
type Product struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// StockUpdate is a single (product, quantity) pair within a batched stock
// mutation.
type StockUpdate struct {
	ProductID string
	Quantity  int
}

// Client is the capability consumed by the order orchestration engine. Each
// method is a single independent network operation; no transactional guarantee
// holds across calls. ReduceStock and RestoreStock are not idempotent, so a
// failed call must not be retried blindly: a retry of a partially applied
// reduction could double-deduct.
type Client interface {
	// FetchProduct returns the product with the given ID, or an error wrapping
	// ErrProductNotFound when the catalog does not know it.
	FetchProduct(ctx context.Context, productID string) (*Product, error)

	// HasStock reports whether at least quantity units of the product are
	// available.
	HasStock(ctx context.Context, productID string, quantity int) (bool, error)

	// ReduceStock decrements available stock for every pair in the batch.
	ReduceStock(ctx context.Context, updates []StockUpdate) error

	// RestoreStock is the compensating inverse of ReduceStock.
	RestoreStock(ctx context.Context, updates []StockUpdate) error
}
