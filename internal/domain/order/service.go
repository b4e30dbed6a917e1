package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trustmart/order-service/internal/domain/auth"
	"github.com/trustmart/order-service/internal/domain/inventory"
)

// Service orchestrates the order lifecycle: stock reservation, persistence,
// status transitions, and stock compensation on edit or cancel. Each method is
// one request-scoped unit of work; serialization of concurrent operations on
// the same order is delegated to the Repository.
type Service struct {
	orders   Repository
	inv      inventory.Client
	reserver *Reserver
}

// NewService creates an order Service with the required collaborators.
func NewService(orders Repository, inv inventory.Client) *Service {
	return &Service{
		orders:   orders,
		inv:      inv,
		reserver: NewReserver(inv),
	}
}

// Create reserves stock for the requested items and persists a new Pending
// order owned by the caller. A reservation failure aborts with nothing
// persisted and no stock mutated.
func (s *Service) Create(ctx context.Context, requested []ItemRequest, owner auth.Identity) (*Order, error) {
	lg := zctx.From(ctx)
	lg.Info("Creating order",
		zap.Int("items", len(requested)),
		zap.String("user", owner.Username),
	)

	items, err := s.reserver.Reserve(ctx, requested)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		Status:     StatusPending,
		TotalPrice: TotalOf(items),
		OwnerID:    owner.UserID,
		OwnerName:  owner.Username,
		Items:      items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	lg.Info("Order created", zap.String("order_id", o.ID))
	return o, nil
}

// Get returns the order with the given ID or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.orders.Get(ctx, id)
}

// ListAll returns every order.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// ListByStatus returns all orders currently in the given status.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	return s.orders.ListByStatus(ctx, status)
}

// ListByOwner returns all orders owned by the given user.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}

// ListByOwnerAndStatus returns the given user's orders in the given status.
func (s *Service) ListByOwnerAndStatus(ctx context.Context, ownerID string, status Status) ([]Order, error) {
	return s.orders.ListByOwnerAndStatus(ctx, ownerID, status)
}

// Update replaces a Pending order's items. The current reservation is
// compensated first, then the new items are validated and reserved against the
// restored stock, and the order is persisted with the recomputed total.
//
// If the new reservation fails after the restoration succeeded, the old stock
// stays restored while the persisted order still carries the old items. That
// window is inherited from the upstream system and is surfaced to the caller
// rather than retried or compensated here.
func (s *Service) Update(ctx context.Context, id string, requested []ItemRequest) (*Order, error) {
	lg := zctx.From(ctx)
	lg.Info("Updating order", zap.String("order_id", id))

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, &InvalidStatusError{Op: "update", Status: o.Status}
	}

	if err := s.inv.RestoreStock(ctx, RestorationBatch(o.Items)); err != nil {
		return nil, errors.Wrap(err, "restore stock")
	}
	o.Items = nil

	items, err := s.reserver.Reserve(ctx, requested)
	if err != nil {
		return nil, err
	}
	o.Items = items
	o.TotalPrice = TotalOf(items)

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	lg.Info("Order updated", zap.String("order_id", o.ID))
	return o, nil
}

// UpdateStatus applies a status transition after validating it against the
// state machine.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (*Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(o.Status, next); err != nil {
		return nil, err
	}

	o.Status = next
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	zctx.From(ctx).Info("Order status updated",
		zap.String("order_id", o.ID),
		zap.String("status", string(next)),
	)
	return o, nil
}

// Cancel restores the order's reserved stock and moves it to Cancelled.
// Permitted only for the order's owner or an admin, and only while the order
// is Pending or Confirmed.
func (s *Service) Cancel(ctx context.Context, id string, caller auth.Identity) error {
	lg := zctx.From(ctx)
	lg.Info("Cancelling order",
		zap.String("order_id", id),
		zap.String("user", caller.UserID),
		zap.Bool("admin", caller.IsAdmin()),
	)

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && o.OwnerID != caller.UserID {
		return ErrForbidden
	}
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return &InvalidStatusError{Op: "cancel", Status: o.Status}
	}

	if err := s.inv.RestoreStock(ctx, RestorationBatch(o.Items)); err != nil {
		return errors.Wrap(err, "restore stock")
	}

	o.Status = StatusCancelled
	if err := s.orders.Update(ctx, o); err != nil {
		return errors.Wrap(err, "update order")
	}

	lg.Info("Order cancelled", zap.String("order_id", o.ID))
	return nil
}

// Delete removes a cancelled order. Stock was already restored at
// cancellation, so no inventory call is made.
func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusCancelled {
		return &InvalidStatusError{Op: "delete", Status: o.Status}
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete order")
	}

	zctx.From(ctx).Info("Order deleted", zap.String("order_id", id))
	return nil
}

// IsOwner reports whether the order exists and is owned by the given user.
// It backs ownership checks done at the transport boundary before Update.
func (s *Service) IsOwner(ctx context.Context, id, userID string) (bool, error) {
	return s.orders.ExistsByIDAndOwner(ctx, id, userID)
}
