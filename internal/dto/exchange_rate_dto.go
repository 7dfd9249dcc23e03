package dto

import (
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the structure for storing a manual exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
}

// ImportExchangeRatesRequest selects the source to import. Empty means the active provider.
type ImportExchangeRatesRequest struct {
	SourceID string `json:"sourceID" binding:"omitempty,oneof=manual exchange_rate_ecb exchange_rate_fixer exchange_rate_fixer_paid"`
}

// ImportExchangeRatesResponse reports an import run.
type ImportExchangeRatesResponse struct {
	SourceID string `json:"sourceID"`
	Rows     int    `json:"rows"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ProviderID       string          `json:"providerID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Manual           bool            `json:"manual"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ProviderID:       rate.ProviderID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		Manual:           rate.Manual,
		UpdatedAt:        rate.UpdatedAt,
	}
}
