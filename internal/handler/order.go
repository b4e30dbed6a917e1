package handler

import (
	"encoding/json"
	"net/http"

	"github.com/trustmart/order-service/internal/domain/order"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), req.toDomain(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !caller.IsAdmin() && o.OwnerID != caller.UserID {
		writeForbidden(w)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var status order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := order.ParseStatus(raw)
		if !ok {
			writeBadRequest(w, "unknown status: "+raw)
			return
		}
		status = st
	}

	var (
		orders []order.Order
		err    error
	)
	switch {
	case caller.IsAdmin() && status != "":
		orders, err = h.orders.ListByStatus(r.Context(), status)
	case caller.IsAdmin():
		orders, err = h.orders.ListAll(r.Context())
	case status != "":
		orders, err = h.orders.ListByOwnerAndStatus(r.Context(), caller.UserID, status)
	default:
		orders, err = h.orders.ListByOwner(r.Context(), caller.UserID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w)
		return
	}
	id := r.PathValue("id")

	if !caller.IsAdmin() {
		owns, err := h.orders.IsOwner(r.Context(), id, caller.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !owns {
			writeForbidden(w)
			return
		}
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	o, err := h.orders.Update(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// updateOrderStatus applies a status transition. Admin-only routing is
// enforced upstream at the gateway; the state machine still rejects every
// illegal transition here.
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	status, ok := order.ParseStatus(req.Status)
	if !ok {
		writeBadRequest(w, "unknown status: "+req.Status)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	if err := h.orders.Cancel(r.Context(), r.PathValue("id"), caller); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// deleteOrder removes a cancelled order. Admin-only routing is enforced
// upstream at the gateway.
func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
