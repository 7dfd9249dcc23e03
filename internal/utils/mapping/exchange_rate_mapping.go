package mapping

import (
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ProviderID:     d.ProviderID,
		BaseCurrency:   d.FromCurrencyCode,
		TargetCurrency: d.ToCurrencyCode,
		Rate:           d.Rate,
		Manual:         d.Manual,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ProviderID:       m.ProviderID,
		FromCurrencyCode: m.BaseCurrency,
		ToCurrencyCode:   m.TargetCurrency,
		Rate:             m.Rate,
		Manual:           m.Manual,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ToDomainExchangeRateSlice converts model rows to domain rates
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}
