package order

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trustmart/order-service/internal/domain/inventory"
)

// ItemRequest is a requested (product, quantity) pair before reservation.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// Reserver runs the stock reservation protocol: every requested pair is
// validated against the catalog (product exists, stock available, unit price
// snapshotted) before a single batched ReduceStock call commits the whole
// reservation. A validation failure aborts with zero stock mutations issued.
// A ReduceStock failure is surfaced to the caller and never retried, since the
// call is not idempotent and its effect on remote stock is undetermined.
type Reserver struct {
	inv inventory.Client
}

// NewReserver returns a Reserver backed by the given inventory client.
func NewReserver(inv inventory.Client) *Reserver {
	return &Reserver{inv: inv}
}

// Reserve validates and prices the requested items, then issues exactly one
// batched stock reduction covering all of them. On success it returns the
// fully priced line items in request order.
func (r *Reserver) Reserve(ctx context.Context, requested []ItemRequest) ([]LineItem, error) {
	if len(requested) == 0 {
		return nil, ErrEmptyItems
	}
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: req.ProductID}
		}
	}

	// Per-item lookups are independent, so they fan out. The batch mutation
	// below runs only after every validation succeeded.
	items := make([]LineItem, len(requested))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requested {
		g.Go(func() error {
			p, err := r.inv.FetchProduct(gctx, req.ProductID)
			if err != nil {
				if errors.Is(err, inventory.ErrProductNotFound) {
					return &ProductNotFoundError{ProductID: req.ProductID}
				}
				return errors.Wrap(err, "fetch product")
			}

			ok, err := r.inv.HasStock(gctx, req.ProductID, req.Quantity)
			if err != nil {
				return errors.Wrap(err, "check stock")
			}
			if !ok {
				return &InsufficientStockError{ProductID: p.ID, ProductName: p.Name}
			}

			items[i] = LineItem{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: p.UnitPrice,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	updates := make([]inventory.StockUpdate, len(requested))
	for i, req := range requested {
		updates[i] = inventory.StockUpdate{ProductID: req.ProductID, Quantity: req.Quantity}
	}
	if err := r.inv.ReduceStock(ctx, updates); err != nil {
		return nil, errors.Wrap(err, "reduce stock")
	}

	return items, nil
}

// RestorationBatch builds the compensating stock increments for an order's
// current line items.
func RestorationBatch(items []LineItem) []inventory.StockUpdate {
	updates := make([]inventory.StockUpdate, len(items))
	for i, it := range items {
		updates[i] = inventory.StockUpdate{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return updates
}
