// Package order implements the order lifecycle core: the aggregate, the status
// state machine, the stock reservation protocol, and the orchestrating service.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the aggregate root for a customer order. Items are owned by the
// order; the ownership relation is containment, not a stored back-reference.
type Order struct {
	ID         string
	CreatedAt  time.Time
	Status     Status
	TotalPrice decimal.Decimal
	OwnerID    string
	OwnerName  string
	Items      []LineItem
}

// LineItem is a single priced position in an order. UnitPrice is a price
// snapshot taken when the item was reserved, independent of later catalog
// price changes.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns unit price times quantity for this line item.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// TotalOf computes the order total over the given line items. The stored
// Order.TotalPrice must always equal TotalOf(Order.Items).
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Repository defines persistence operations for orders. Implementations must
// return ErrNotFound from Get when no order with the given ID exists, and must
// serialize concurrent updates to the same order row.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID string, status Status) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	ExistsByIDAndOwner(ctx context.Context, id, ownerID string) (bool, error)
}
