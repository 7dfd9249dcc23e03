package services

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettingsProvider exposes the read-only currency settings. No component reads
// configuration from anywhere else.
type SettingsProvider interface {
	ResolverSettings() domain.ResolverSettings
}

// StoreContext resolves the store serving a request.
type StoreContext interface {
	// DefaultCurrency returns the store default currency, or "" when no store resolves.
	DefaultCurrency(ctx context.Context, req *domain.RequestContext) string
}

// LanguageContext resolves the current UI language of a request.
type LanguageContext interface {
	CurrentLanguage(ctx context.Context, req *domain.RequestContext) string
}

// GeoLocator resolves the visitor country. Returns "" when unknown or unavailable.
type GeoLocator interface {
	CountryForRequest(ctx context.Context, req *domain.RequestContext) string
}

// DomicileCurrencyResolver maps a country to its native currency.
type DomicileCurrencyResolver interface {
	CurrencyForCountry(country string) (string, bool)
}

// AdminRouteContext decides whether a request targets the administrative area.
type AdminRouteContext interface {
	IsAdminPath(req *domain.RequestContext) bool
}

// ExecutionContext reports whether code runs outside an interactive request (CLI, cron).
type ExecutionContext interface {
	IsNonInteractive(req *domain.RequestContext) bool
}

// ExchangeRateProvider loads the rate table of a provider.
// It fails with apperrors.ErrMissingExchangeSource when providerID is empty.
type ExchangeRateProvider interface {
	LoadRates(ctx context.Context, providerID string) (*domain.ExchangeRateTable, error)
}

// EntityStorage loads and saves orders.
type EntityStorage interface {
	Load(ctx context.Context, orderID string) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}

// ShippingMethod computes rates for a shipment and applies a chosen one.
type ShippingMethod interface {
	ID() string
	CalculateRates(ctx context.Context, req *domain.RequestContext, shipment *domain.Shipment) ([]domain.ShippingRate, error)
	SelectRate(shipment *domain.Shipment, rate domain.ShippingRate)
}

// ShippingMethodRegistry looks up the method configured on a shipment.
type ShippingMethodRegistry interface {
	ShippingMethod(id string) (ShippingMethod, bool)
}

// PurchasedItemPricer re-prices catalog-linked order items in the target currency.
type PurchasedItemPricer interface {
	PriceOrderItem(ctx context.Context, req *domain.RequestContext, item domain.OrderItem, target string) (domain.Money, error)
}

// Purchasable is a catalog entity carrying a default price and optional per-currency prices.
type Purchasable interface {
	PurchasableID() string
	Price() domain.Money
	// FieldPrice returns the explicit price stored for a currency, if any.
	FieldPrice(currency string) (domain.Money, bool)
}

// CatalogReader resolves purchasables referenced by order items.
type CatalogReader interface {
	FindPurchasable(ctx context.Context, id string) (Purchasable, error)
}

// RateSource fetches raw rates from a remote feed.
// Rates are expressed relative to the returned base currency.
type RateSource interface {
	SourceID() string
	FetchRates(ctx context.Context, base string) (string, map[string]decimal.Decimal, error)
}
