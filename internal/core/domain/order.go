package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState represents the workflow state of an order.
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStatePlaced    OrderState = "placed"
	OrderStateCompleted OrderState = "completed"
	OrderStateCanceled  OrderState = "canceled"
)

// RefreshState tells the load pipeline whether the order should be refreshed.
// RefreshStateSkip marks an order already reconciled in the current load cycle.
type RefreshState string

const (
	RefreshStateNone   RefreshState = ""
	RefreshStateOnLoad RefreshState = "on_load"
	RefreshStateSkip   RefreshState = "skip"
)

// AdjustmentType classifies an adjustment.
type AdjustmentType string

const (
	AdjustmentTypeCustom    AdjustmentType = "custom"
	AdjustmentTypeFee       AdjustmentType = "fee"
	AdjustmentTypePromotion AdjustmentType = "promotion"
	AdjustmentTypeShipping  AdjustmentType = "shipping"
	AdjustmentTypeTax       AdjustmentType = "tax"
)

// Adjustment modifies an order or order item total.
type Adjustment struct {
	Type     AdjustmentType `json:"type"`
	Label    string         `json:"label"`
	Amount   Money          `json:"amount"`
	Locked   bool           `json:"locked"`
	SourceID string         `json:"sourceID,omitempty"`
}

// WithAmount returns a copy of the adjustment carrying a new amount.
func (a Adjustment) WithAmount(amount Money) Adjustment {
	a.Amount = amount
	return a
}

// OrderItem is a single order line.
// PurchasedEntityID references a catalog product variation and is empty for custom lines.
type OrderItem struct {
	OrderItemID       string          `json:"orderItemID"`
	Title             string          `json:"title"`
	PurchasedEntityID string          `json:"purchasedEntityID,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitPrice         Money           `json:"unitPrice"`
	Adjustments       []Adjustment    `json:"adjustments,omitempty"`
}

// HasPurchasedEntity reports whether the line is linked to a catalog purchasable.
func (i OrderItem) HasPurchasedEntity() bool {
	return i.PurchasedEntityID != ""
}

// TotalPrice is unit price times quantity.
func (i OrderItem) TotalPrice() Money {
	return i.UnitPrice.Multiply(i.Quantity)
}

// AdjustedTotalPrice is the total price plus the item's own adjustments.
func (i OrderItem) AdjustedTotalPrice() (Money, error) {
	total := i.TotalPrice()
	for _, adj := range i.Adjustments {
		var err error
		total, err = total.Add(adj.Amount)
		if err != nil {
			return Money{}, fmt.Errorf("order item %s: %w", i.OrderItemID, err)
		}
	}
	return total, nil
}

// ShippingRate is a rate offered by a shipping method for a shipment.
type ShippingRate struct {
	RateID           string `json:"rateID"`
	ShippingMethodID string `json:"shippingMethodID"`
	Service          string `json:"service"`
	Amount           Money  `json:"amount"`
	OriginalAmount   Money  `json:"originalAmount"`
}

// Shipment is a package of order items shipped with one method.
type Shipment struct {
	ShipmentID       string          `json:"shipmentID"`
	ShippingMethodID string          `json:"shippingMethodID,omitempty"`
	ShippingService  string          `json:"shippingService,omitempty"`
	ItemQuantity     decimal.Decimal `json:"itemQuantity"`
	Amount           *Money          `json:"amount,omitempty"`
	OriginalAmount   *Money          `json:"originalAmount,omitempty"`
}

// SetAmount stores a copy of amount on the shipment.
func (s *Shipment) SetAmount(amount Money) {
	s.Amount = &amount
}

// Order is the aggregate reconciled against the resolved currency.
type Order struct {
	OrderID       string       `json:"orderID"`
	StoreID       string       `json:"storeID,omitempty"`
	State         OrderState   `json:"state"`
	CustomerID    string       `json:"customerID,omitempty"`
	IsCart        bool         `json:"isCart"`
	Items         []OrderItem  `json:"items"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
	Shipments     []Shipment   `json:"shipments,omitempty"`
	SubtotalPrice *Money       `json:"subtotalPrice,omitempty"`
	TotalPrice    *Money       `json:"totalPrice,omitempty"`
	UpdatedAt     time.Time    `json:"updatedAt"`

	// Transient, never persisted.
	SkipRefresh  bool         `json:"-"`
	RefreshState RefreshState `json:"-"`
}

// AddAdjustment appends an order-level adjustment and recalculates the total.
func (o *Order) AddAdjustment(adj Adjustment) error {
	o.Adjustments = append(o.Adjustments, adj)
	return o.RecalculateTotalPrice()
}

// SetAdjustments replaces the adjustments without touching the totals.
func (o *Order) SetAdjustments(adjustments []Adjustment) {
	o.Adjustments = adjustments
}

// RecalculateTotalPrice recomputes subtotal and total from items, adjustments and shipments.
// An order with nothing priced keeps nil totals.
func (o *Order) RecalculateTotalPrice() error {
	currency := o.pricingCurrency()
	if currency == "" {
		o.SubtotalPrice = nil
		o.TotalPrice = nil
		return nil
	}

	subtotal := ZeroMoney(currency)
	total := ZeroMoney(currency)
	for _, item := range o.Items {
		var err error
		if subtotal, err = subtotal.Add(item.TotalPrice()); err != nil {
			return fmt.Errorf("order %s subtotal: %w", o.OrderID, err)
		}
		adjusted, err := item.AdjustedTotalPrice()
		if err != nil {
			return err
		}
		if total, err = total.Add(adjusted); err != nil {
			return fmt.Errorf("order %s total: %w", o.OrderID, err)
		}
	}
	for _, adj := range o.Adjustments {
		var err error
		if total, err = total.Add(adj.Amount); err != nil {
			return fmt.Errorf("order %s adjustment %q: %w", o.OrderID, adj.Label, err)
		}
	}
	for _, s := range o.Shipments {
		if s.Amount == nil {
			continue
		}
		var err error
		if total, err = total.Add(*s.Amount); err != nil {
			return fmt.Errorf("order %s shipment %s: %w", o.OrderID, s.ShipmentID, err)
		}
	}

	o.SubtotalPrice = &subtotal
	o.TotalPrice = &total
	return nil
}

// ComparableCurrency returns the currency of the total, else the subtotal, else "".
func (o *Order) ComparableCurrency() string {
	if o.TotalPrice != nil {
		return o.TotalPrice.Currency()
	}
	if o.SubtotalPrice != nil {
		return o.SubtotalPrice.Currency()
	}
	return ""
}

// IsOwnedBy reports whether the given user is the order customer.
func (o *Order) IsOwnedBy(userID string) bool {
	return userID != "" && o.CustomerID == userID
}

func (o *Order) pricingCurrency() string {
	for _, item := range o.Items {
		if !item.UnitPrice.IsEmpty() {
			return item.UnitPrice.Currency()
		}
	}
	for _, s := range o.Shipments {
		if s.Amount != nil {
			return s.Amount.Currency()
		}
	}
	return ""
}
