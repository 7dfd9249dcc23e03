package services

import (
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/shopspring/decimal"
)

var decimalOne = decimal.NewFromInt(1)

// ReverseCalculate re-expresses rates quoted against base as rates quoted against target.
//
// factor = 1 / data[target] (1 when target is absent or zero). The result holds
// base -> factor and, for every other enabled currency in data, data[c] * factor.
func ReverseCalculate(target, base string, data map[string]decimal.Decimal, enabled domain.CurrencySet) map[string]decimal.Decimal {
	rateTarget, ok := data[target]
	if !ok || rateTarget.IsZero() {
		rateTarget = decimalOne
	}
	factor := decimalOne.Div(rateTarget)

	result := make(map[string]decimal.Decimal, len(data)+1)
	result[base] = factor
	for code, rate := range data {
		if code != target && enabled.Has(code) {
			result[code] = rate.Mul(factor)
		}
	}
	return result
}

// CrossSyncCalculate derives a full rate row for every enabled currency from rates quoted
// against a single base. Manual entries of existing are kept.
func CrossSyncCalculate(base string, data map[string]decimal.Decimal, enabled domain.CurrencySet, existing *domain.ExchangeRateTable) *domain.ExchangeRateTable {
	table := domain.NewExchangeRateTable()
	if len(data) == 0 {
		return table
	}
	for code := range enabled {
		row := ReverseCalculate(code, base, data, enabled)
		table.SetRow(code, MapExchangeRates(row, code, existing))
	}
	return table
}

// MapExchangeRates turns fetched rates for base into table entries, leaving entries an
// admin flagged as manual untouched.
func MapExchangeRates(data map[string]decimal.Decimal, base string, existing *domain.ExchangeRateTable) map[string]domain.RateEntry {
	row := make(map[string]domain.RateEntry, len(data))
	for code, rate := range data {
		if current, ok := existing.Lookup(base, code); ok && current.Manual {
			row[code] = current
			continue
		}
		row[code] = domain.RateEntry{Value: rate}
	}
	return row
}
