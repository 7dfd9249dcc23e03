package services_test

import (
	"testing"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimals(values map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(values))
	for k, v := range values {
		out[k] = decimal.RequireFromString(v)
	}
	return out
}

func enabledSet(codes ...string) domain.CurrencySet {
	set := make(domain.CurrencySet, len(codes))
	for _, code := range codes {
		set[code] = domain.Currency{CurrencyCode: code, Enabled: true}
	}
	return set
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestReverseCalculate(t *testing.T) {
	data := decimals(map[string]string{"USD": "2", "HRK": "8", "GBP": "0.9"})

	result := services.ReverseCalculate("USD", "EUR", data, enabledSet("EUR", "USD", "HRK"))

	require.Len(t, result, 2)
	assertDecimal(t, "0.5", result["EUR"])
	assertDecimal(t, "4", result["HRK"])
	assert.NotContains(t, result, "USD")
	assert.NotContains(t, result, "GBP", "disabled currencies are skipped")
}

func TestReverseCalculate_MissingTargetUsesIdentity(t *testing.T) {
	data := decimals(map[string]string{"USD": "2"})

	result := services.ReverseCalculate("EUR", "EUR", data, enabledSet("EUR", "USD"))

	assertDecimal(t, "1", result["EUR"])
	assertDecimal(t, "2", result["USD"])
}

func TestCrossSyncCalculate(t *testing.T) {
	data := decimals(map[string]string{"USD": "2", "HRK": "8"})

	table := services.CrossSyncCalculate("EUR", data, enabledSet("EUR", "USD", "HRK"), nil)

	assert.ElementsMatch(t, []string{"EUR", "USD", "HRK"}, table.Bases())
	assertDecimal(t, "2", table.Rate("EUR", "USD"))
	assertDecimal(t, "0.5", table.Rate("USD", "EUR"))
	assertDecimal(t, "4", table.Rate("USD", "HRK"))
	assertDecimal(t, "0.125", table.Rate("HRK", "EUR"))
	assertDecimal(t, "0.25", table.Rate("HRK", "USD"))
}

func TestCrossSyncCalculate_KeepsManualEntries(t *testing.T) {
	existing := domain.NewExchangeRateTable()
	existing.Set("USD", "EUR", domain.RateEntry{Value: decimal.RequireFromString("0.6"), Manual: true})
	existing.Set("USD", "HRK", domain.RateEntry{Value: decimal.RequireFromString("9")})

	table := services.CrossSyncCalculate("EUR", decimals(map[string]string{"USD": "2", "HRK": "8"}), enabledSet("EUR", "USD", "HRK"), existing)

	entry, ok := table.Lookup("USD", "EUR")
	require.True(t, ok)
	assert.True(t, entry.Manual)
	assertDecimal(t, "0.6", entry.Value)

	entry, ok = table.Lookup("USD", "HRK")
	require.True(t, ok)
	assert.False(t, entry.Manual)
	assertDecimal(t, "4", entry.Value)
}

func TestCrossSyncCalculate_EmptyData(t *testing.T) {
	table := services.CrossSyncCalculate("EUR", nil, enabledSet("EUR", "USD"), nil)

	assert.True(t, table.IsEmpty())
}
