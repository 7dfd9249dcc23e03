package dto

import (
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
)

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	OrderID       string              `json:"orderID"`
	State         string              `json:"state"`
	IsCart        bool                `json:"isCart"`
	Items         []domain.OrderItem  `json:"items"`
	Adjustments   []domain.Adjustment `json:"adjustments"`
	Shipments     []domain.Shipment   `json:"shipments"`
	SubtotalPrice *domain.Money       `json:"subtotalPrice,omitempty"`
	TotalPrice    *domain.Money       `json:"totalPrice,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	Outcome       string              `json:"outcome,omitempty"`
}

// ToOrderResponse converts a domain.Order to OrderResponse DTO
func ToOrderResponse(order *domain.Order, outcome string) OrderResponse {
	return OrderResponse{
		OrderID:       order.OrderID,
		State:         string(order.State),
		IsCart:        order.IsCart,
		Items:         order.Items,
		Adjustments:   order.Adjustments,
		Shipments:     order.Shipments,
		SubtotalPrice: order.SubtotalPrice,
		TotalPrice:    order.TotalPrice,
		UpdatedAt:     order.UpdatedAt,
		Outcome:       outcome,
	}
}
