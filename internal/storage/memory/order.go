// Package memory implements an in-memory order repository used in tests and
// local development.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/trustmart/order-service/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository keeps orders in a mutex-guarded map. All reads and writes
// operate on copies so callers can never alias stored state.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

// NewOrderRepository returns an empty in-memory repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]order.Order)}
}

func clone(o order.Order) order.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

// Create stores a new order.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = clone(*o)
	return nil
}

// Get returns a copy of the stored order or order.ErrNotFound.
func (r *OrderRepository) Get(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := clone(o)
	return &cp, nil
}

// List returns all stored orders.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	return r.filter(func(order.Order) bool { return true }), nil
}

// ListByStatus returns all orders in the given status.
func (r *OrderRepository) ListByStatus(_ context.Context, status order.Status) ([]order.Order, error) {
	return r.filter(func(o order.Order) bool { return o.Status == status }), nil
}

// ListByOwner returns all orders owned by the given user.
func (r *OrderRepository) ListByOwner(_ context.Context, ownerID string) ([]order.Order, error) {
	return r.filter(func(o order.Order) bool { return o.OwnerID == ownerID }), nil
}

// ListByOwnerAndStatus returns the given user's orders in the given status.
func (r *OrderRepository) ListByOwnerAndStatus(_ context.Context, ownerID string, status order.Status) ([]order.Order, error) {
	return r.filter(func(o order.Order) bool {
		return o.OwnerID == ownerID && o.Status == status
	}), nil
}

// Update replaces the stored order or returns order.ErrNotFound.
func (r *OrderRepository) Update(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrNotFound
	}
	r.orders[o.ID] = clone(*o)
	return nil
}

// Delete removes the stored order or returns order.ErrNotFound.
func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return order.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

// ExistsByIDAndOwner reports whether the order exists and belongs to ownerID.
func (r *OrderRepository) ExistsByIDAndOwner(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	return ok && o.OwnerID == ownerID, nil
}

func (r *OrderRepository) filter(keep func(order.Order) bool) []order.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	slices.SortFunc(out, func(a, b order.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
