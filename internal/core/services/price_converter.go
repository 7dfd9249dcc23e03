package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

type priceConverter struct {
	BaseService
	settings   portssvc.SettingsProvider
	rates      portssvc.ExchangeRateProvider
	currencies portssvc.CurrencyReaderSvc
}

// NewPriceConverter creates the converter used by every currency-aware price calculation.
func NewPriceConverter(settings portssvc.SettingsProvider, rates portssvc.ExchangeRateProvider, currencies portssvc.CurrencyReaderSvc) portssvc.PriceConverterSvc {
	return &priceConverter{settings: settings, rates: rates, currencies: currencies}
}

// Convert returns amount expressed in target, rounded half away from zero to the target's
// minor units.
//
// A missing provider is an error even for same-currency calls. A missing rate row is not:
// the pair converts 1:1 and a warning is logged.
func (c *priceConverter) Convert(ctx context.Context, amount domain.Money, target string) (domain.Money, error) {
	settings := c.settings.ResolverSettings()
	if settings.ExchangeRateProvider == "" {
		return domain.Money{}, apperrors.ErrMissingExchangeSource
	}
	if amount.Currency() == target {
		return amount, nil
	}

	if settings.StrictCurrencies {
		enabled, err := c.currencies.EnabledCurrencies(ctx)
		if err != nil {
			return domain.Money{}, fmt.Errorf("failed to check enabled currencies: %w", err)
		}
		if !enabled.Has(amount.Currency()) {
			return domain.Money{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, amount.Currency())
		}
		if !enabled.Has(target) {
			return domain.Money{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, target)
		}
	}

	table, err := c.rates.LoadRates(ctx, settings.ExchangeRateProvider)
	if err != nil {
		return domain.Money{}, err
	}
	if _, ok := table.Lookup(amount.Currency(), target); !ok {
		c.LogWarn(ctx, "No exchange rate stored for pair, converting 1:1",
			slog.String("provider", settings.ExchangeRateProvider),
			slog.String("from", amount.Currency()),
			slog.String("to", target))
	}

	rate := table.Rate(amount.Currency(), target)
	return amount.Convert(target, rate).Round(c.currencies.Precision(ctx, target)), nil
}
