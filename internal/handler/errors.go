package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/trustmart/order-service/internal/domain/order"
)

// writeError maps a domain error onto an HTTP error response. Collaborator
// and persistence failures fall through to 500: they may have left stock and
// order state inconsistent, so the condition is logged and surfaced rather
// than masked.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	var (
		iqErr  *order.InvalidQuantityError
		pnfErr *order.ProductNotFoundError
		isErr  *order.InsufficientStockError
		itErr  *order.InvalidTransitionError
		stErr  *order.InvalidStatusError
	)

	switch {
	case errors.Is(err, order.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, order.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, order.ErrEmptyItems):
		status, message = http.StatusBadRequest, err.Error()
	case errors.As(err, &iqErr):
		status, message = http.StatusUnprocessableEntity, iqErr.Error()
	case errors.As(err, &pnfErr):
		status, message = http.StatusUnprocessableEntity, pnfErr.Error()
	case errors.As(err, &isErr):
		status, message = http.StatusUnprocessableEntity, isErr.Error()
	case errors.As(err, &itErr):
		status, message = http.StatusConflict, itErr.Error()
	case errors.As(err, &stErr):
		status, message = http.StatusConflict, stErr.Error()
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	}

	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{
		Code:    http.StatusUnauthorized,
		Message: "missing caller identity",
	})
}

func writeForbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, errorResponse{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
