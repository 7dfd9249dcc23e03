package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRateTable_Rate(t *testing.T) {
	table := domain.NewExchangeRateTable()
	table.Set("USD", "HRK", domain.RateEntry{Value: decimal.RequireFromString("6.85")})

	tests := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{name: "stored pair", base: "USD", target: "HRK", want: "6.85"},
		{name: "missing target falls back to one", base: "USD", target: "XYZ", want: "1"},
		{name: "missing base falls back to one", base: "GBP", target: "HRK", want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Rate(tt.base, tt.target)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestExchangeRateTable_NilIsEmpty(t *testing.T) {
	var table *domain.ExchangeRateTable
	assert.True(t, table.IsEmpty())
	assert.True(t, decimal.NewFromInt(1).Equal(table.Rate("USD", "EUR")))
	assert.Nil(t, table.Row("USD"))
}

func TestExchangeRateTable_RowsRoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	table := domain.NewExchangeRateTable()
	table.Set("EUR", "USD", domain.RateEntry{Value: decimal.RequireFromString("1.1")})
	table.Set("EUR", "HRK", domain.RateEntry{Value: decimal.RequireFromString("7.5"), Manual: true})

	rows := table.Rows(domain.ProviderECB, now)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, domain.ProviderECB, r.ProviderID)
		assert.Equal(t, now, r.UpdatedAt)
	}

	rebuilt := domain.NewExchangeRateTableFromRows(rows)
	entry, ok := rebuilt.Lookup("EUR", "HRK")
	require.True(t, ok)
	assert.True(t, entry.Manual)
	assert.True(t, decimal.RequireFromString("7.5").Equal(entry.Value))
	assert.ElementsMatch(t, []string{"EUR"}, rebuilt.Bases())
}

func TestExchangeRateTable_RowIsCopy(t *testing.T) {
	table := domain.NewExchangeRateTable()
	table.Set("EUR", "USD", domain.RateEntry{Value: decimal.RequireFromString("1.1")})

	row := table.Row("EUR")
	row["USD"] = domain.RateEntry{Value: decimal.NewFromInt(99)}

	assert.True(t, decimal.RequireFromString("1.1").Equal(table.Rate("EUR", "USD")))
}
