package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// LoadRates returns the full rate table stored for a provider.
	LoadRates(ctx context.Context, providerID string) (*domain.ExchangeRateTable, error)

	// FindExchangeRate retrieves a single stored rate between two currencies.
	FindExchangeRate(ctx context.Context, providerID, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// LastImport returns when the provider's table was last written. Zero time if never.
	LastImport(ctx context.Context, providerID string) (time.Time, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate upserts a single rate row.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error

	// ReplaceRates atomically replaces every row of the provider with the given table.
	ReplaceRates(ctx context.Context, providerID string, table *domain.ExchangeRateTable, importedAt time.Time) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
