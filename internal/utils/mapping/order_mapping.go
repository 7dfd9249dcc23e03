package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/models"
)

// ToModelOrder serializes the aggregate into an orders row.
func ToModelOrder(d *domain.Order) (models.Order, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to encode order %s: %w", d.OrderID, err)
	}
	m := models.Order{
		OrderID:   d.OrderID,
		State:     string(d.State),
		IsCart:    d.IsCart,
		Payload:   payload,
		UpdatedAt: d.UpdatedAt,
	}
	if d.CustomerID != "" {
		customerID := d.CustomerID
		m.CustomerID = &customerID
	}
	return m, nil
}

// ToDomainOrder decodes an orders row. The row columns win over the payload copy.
func ToDomainOrder(m models.Order) (*domain.Order, error) {
	var d domain.Order
	if err := json.Unmarshal(m.Payload, &d); err != nil {
		return nil, fmt.Errorf("failed to decode order %s: %w", m.OrderID, err)
	}
	d.OrderID = m.OrderID
	d.State = domain.OrderState(m.State)
	d.IsCart = m.IsCart
	d.UpdatedAt = m.UpdatedAt
	if m.CustomerID != nil {
		d.CustomerID = *m.CustomerID
	}
	return &d, nil
}
