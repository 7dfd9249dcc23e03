package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Known exchange-rate provider ids.
const (
	ProviderManual       = "manual"
	ProviderECB          = "exchange_rate_ecb"
	ProviderFixer        = "exchange_rate_fixer"
	ProviderFixerPaid    = "exchange_rate_fixer_paid"
	ECBBaseCurrency      = "EUR"
	identityRateFallback = 1
)

// ExchangeRate is a single stored rate row.
type ExchangeRate struct {
	ProviderID       string          `json:"providerID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Manual           bool            `json:"manual"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// RateEntry is one cell of the rate table. Manual entries survive imports.
type RateEntry struct {
	Value  decimal.Decimal `json:"value"`
	Manual bool            `json:"manual"`
}

// ExchangeRateTable maps base -> target -> rate. It is read-only while serving requests;
// only the import job builds new tables.
type ExchangeRateTable struct {
	rates map[string]map[string]RateEntry
}

// NewExchangeRateTable creates an empty table.
func NewExchangeRateTable() *ExchangeRateTable {
	return &ExchangeRateTable{rates: make(map[string]map[string]RateEntry)}
}

// NewExchangeRateTableFromRows builds a table from stored rows.
func NewExchangeRateTableFromRows(rows []ExchangeRate) *ExchangeRateTable {
	t := NewExchangeRateTable()
	for _, r := range rows {
		t.Set(r.FromCurrencyCode, r.ToCurrencyCode, RateEntry{Value: r.Rate, Manual: r.Manual})
	}
	return t
}

// Set stores an entry. Intended for table construction only.
func (t *ExchangeRateTable) Set(base, target string, entry RateEntry) {
	row, ok := t.rates[base]
	if !ok {
		row = make(map[string]RateEntry)
		t.rates[base] = row
	}
	row[target] = entry
}

// SetRow replaces the whole row for base.
func (t *ExchangeRateTable) SetRow(base string, row map[string]RateEntry) {
	t.rates[base] = row
}

// Lookup returns the stored entry for the pair, if any.
func (t *ExchangeRateTable) Lookup(base, target string) (RateEntry, bool) {
	if t == nil {
		return RateEntry{}, false
	}
	entry, ok := t.rates[base][target]
	return entry, ok
}

// Rate returns the stored rate, or 1 when the pair has no entry.
//
// The identity fallback is a compatibility quirk: storefronts rely on an unconfigured pair
// converting 1:1 instead of failing. Only a missing provider is an error.
func (t *ExchangeRateTable) Rate(base, target string) decimal.Decimal {
	if entry, ok := t.Lookup(base, target); ok {
		return entry.Value
	}
	return decimal.NewFromInt(identityRateFallback)
}

// Row returns a copy of the row for base.
func (t *ExchangeRateTable) Row(base string) map[string]RateEntry {
	if t == nil {
		return nil
	}
	row := make(map[string]RateEntry, len(t.rates[base]))
	for k, v := range t.rates[base] {
		row[k] = v
	}
	return row
}

// Bases lists the base currencies present in the table.
func (t *ExchangeRateTable) Bases() []string {
	if t == nil {
		return nil
	}
	bases := make([]string, 0, len(t.rates))
	for b := range t.rates {
		bases = append(bases, b)
	}
	return bases
}

// IsEmpty reports whether the table holds no rates.
func (t *ExchangeRateTable) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, row := range t.rates {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Rows flattens the table into storable rows for providerID.
func (t *ExchangeRateTable) Rows(providerID string, now time.Time) []ExchangeRate {
	if t == nil {
		return nil
	}
	var rows []ExchangeRate
	for base, row := range t.rates {
		for target, entry := range row {
			rows = append(rows, ExchangeRate{
				ProviderID:       providerID,
				FromCurrencyCode: base,
				ToCurrencyCode:   target,
				Rate:             entry.Value,
				Manual:           entry.Manual,
				UpdatedAt:        now,
			})
		}
	}
	return rows
}
