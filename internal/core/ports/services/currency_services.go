package services

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// EnabledCurrencies returns the set of currencies resolution may pick.
	EnabledCurrencies(ctx context.Context) (domain.CurrencySet, error)

	// Precision returns the minor-unit count used when rounding amounts in code.
	Precision(ctx context.Context, currencyCode string) int32
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// ExchangeRateReaderSvc defines read operations for exchange rate data
type ExchangeRateReaderSvc interface {
	// GetExchangeRate returns the effective rate of the active provider for a pair.
	GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rate data
type ExchangeRateWriterSvc interface {
	// CreateExchangeRate stores a manual rate for the active provider.
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// ExchangeImportSvc refreshes stored rate tables from their sources.
type ExchangeImportSvc interface {
	// Import runs one source and returns the number of stored rows.
	Import(ctx context.Context, sourceID string) (int, error)
	// ImportActive imports the configured provider.
	ImportActive(ctx context.Context) (int, error)
}

// CurrencyResolverSvc picks the single currency of a request.
type CurrencyResolverSvc interface {
	GetCurrency(ctx context.Context, req *domain.RequestContext) string
	// Release drops the memoized value of a finished request.
	Release(req *domain.RequestContext)
}

// PriceConverterSvc converts money between currencies with rounding.
type PriceConverterSvc interface {
	Convert(ctx context.Context, amount domain.Money, target string) (domain.Money, error)
}

// PriceResolverSvc resolves a purchasable price for a request.
type PriceResolverSvc interface {
	Resolve(ctx context.Context, req *domain.RequestContext, purchasable Purchasable) (domain.Money, error)
}
