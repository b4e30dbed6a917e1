// Package handler exposes the order service over HTTP, translating the
// gateway's identity headers and the domain's error taxonomy.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/trustmart/order-service/internal/domain/order"
)

// Handler serves the order API, delegating all business logic to the order
// service.
type Handler struct {
	orders *order.Service
}

// New constructs a Handler around the order service.
func New(orders *order.Service) *Handler {
	return &Handler{orders: orders}
}

// Routes registers the order API endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("PUT /api/orders/{id}", h.updateOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.updateOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", h.deleteOrder)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
