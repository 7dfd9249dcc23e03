package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates table, keyed by provider and currency pair.
type ExchangeRate struct {
	ProviderID     string          `json:"providerID" db:"provider_id"`
	BaseCurrency   string          `json:"baseCurrency" db:"base_currency"`
	TargetCurrency string          `json:"targetCurrency" db:"target_currency"`
	Rate           decimal.Decimal `json:"rate" db:"rate"`
	Manual         bool            `json:"manual" db:"manual"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}
