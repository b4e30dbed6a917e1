package handler

import (
	"time"

	"github.com/trustmart/order-service/internal/domain/order"
)

type orderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderRequest struct {
	Items []orderItemRequest `json:"items"`
}

func (req orderRequest) toDomain() []order.ItemRequest {
	items := make([]order.ItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return items
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

type lineItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type orderResponse struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Status     string             `json:"status"`
	TotalPrice float64            `json:"totalPrice"`
	OwnerID    string             `json:"ownerId"`
	OwnerName  string             `json:"ownerName"`
	Items      []lineItemResponse `json:"items"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:         o.ID,
		CreatedAt:  o.CreatedAt,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.InexactFloat64(),
		OwnerID:    o.OwnerID,
		OwnerName:  o.OwnerName,
		Items:      items,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}
