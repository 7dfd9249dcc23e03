package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

// FlatRateShipping offers a single fixed rate for every shipment.
type FlatRateShipping struct {
	MethodID string
	Service  string
	Config   AmountConfig

	amounts *AmountFieldResolver
}

// NewFlatRateShipping creates a flat rate method.
func NewFlatRateShipping(id, service string, cfg AmountConfig, amounts *AmountFieldResolver) *FlatRateShipping {
	return &FlatRateShipping{MethodID: id, Service: service, Config: cfg, amounts: amounts}
}

var _ portssvc.ShippingMethod = (*FlatRateShipping)(nil)

func (m *FlatRateShipping) ID() string { return m.MethodID }

// AmountConfig exposes the per-currency overrides used when rates are aligned.
func (m *FlatRateShipping) AmountConfig() AmountConfig { return m.Config }

// CalculateRates returns the configured rate in the resolved currency.
func (m *FlatRateShipping) CalculateRates(ctx context.Context, req *domain.RequestContext, shipment *domain.Shipment) ([]domain.ShippingRate, error) {
	amount, err := m.amounts.Apply(ctx, req, m.Config)
	if err != nil {
		return nil, fmt.Errorf("flat rate %s: %w", m.MethodID, err)
	}
	return []domain.ShippingRate{newShippingRate(m.MethodID, m.Service, amount)}, nil
}

func (m *FlatRateShipping) SelectRate(shipment *domain.Shipment, rate domain.ShippingRate) {
	applyShippingRate(shipment, rate)
}

// FlatRatePerItemShipping charges the configured rate once per shipped unit.
type FlatRatePerItemShipping struct {
	MethodID string
	Service  string
	Config   AmountConfig

	amounts    *AmountFieldResolver
	currencies portssvc.CurrencyReaderSvc
}

// NewFlatRatePerItemShipping creates a per-item flat rate method.
func NewFlatRatePerItemShipping(id, service string, cfg AmountConfig, amounts *AmountFieldResolver, currencies portssvc.CurrencyReaderSvc) *FlatRatePerItemShipping {
	return &FlatRatePerItemShipping{MethodID: id, Service: service, Config: cfg, amounts: amounts, currencies: currencies}
}

var _ portssvc.ShippingMethod = (*FlatRatePerItemShipping)(nil)

func (m *FlatRatePerItemShipping) ID() string { return m.MethodID }

func (m *FlatRatePerItemShipping) AmountConfig() AmountConfig { return m.Config }

// CalculateRates returns one rate: the resolved per-item amount times the shipped quantity.
func (m *FlatRatePerItemShipping) CalculateRates(ctx context.Context, req *domain.RequestContext, shipment *domain.Shipment) ([]domain.ShippingRate, error) {
	amount, err := m.amounts.Apply(ctx, req, m.Config)
	if err != nil {
		return nil, fmt.Errorf("flat rate per item %s: %w", m.MethodID, err)
	}
	amount = amount.Multiply(shipment.ItemQuantity).Round(m.currencies.Precision(ctx, amount.Currency()))
	return []domain.ShippingRate{newShippingRate(m.MethodID, m.Service, amount)}, nil
}

func (m *FlatRatePerItemShipping) SelectRate(shipment *domain.Shipment, rate domain.ShippingRate) {
	applyShippingRate(shipment, rate)
}

func newShippingRate(methodID, service string, amount domain.Money) domain.ShippingRate {
	return domain.ShippingRate{
		RateID:           methodID + ":" + service,
		ShippingMethodID: methodID,
		Service:          service,
		Amount:           amount,
		OriginalAmount:   amount,
	}
}

func applyShippingRate(shipment *domain.Shipment, rate domain.ShippingRate) {
	shipment.ShippingMethodID = rate.ShippingMethodID
	shipment.ShippingService = rate.Service
	shipment.SetAmount(rate.Amount)
	original := rate.OriginalAmount
	if original.IsEmpty() {
		original = rate.Amount
	}
	shipment.OriginalAmount = &original
}

// ShippingMethods is an in-memory ShippingMethodRegistry.
type ShippingMethods map[string]portssvc.ShippingMethod

// NewShippingMethods indexes methods by ID.
func NewShippingMethods(methods ...portssvc.ShippingMethod) ShippingMethods {
	registry := make(ShippingMethods, len(methods))
	for _, m := range methods {
		registry[m.ID()] = m
	}
	return registry
}

var _ portssvc.ShippingMethodRegistry = ShippingMethods(nil)

func (r ShippingMethods) ShippingMethod(id string) (portssvc.ShippingMethod, bool) {
	m, ok := r[id]
	return m, ok
}
