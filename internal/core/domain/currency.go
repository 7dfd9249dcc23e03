package domain

// DefaultPrecision is used for currencies without a known minor-unit count.
const DefaultPrecision int32 = 2

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int32  `json:"precision"`    // minor units, e.g. 2 for USD, 0 for JPY
	Enabled      bool   `json:"enabled"`
	AuditFields
}

// CurrencySet is the set of enabled currency codes.
type CurrencySet map[string]Currency

// Has reports whether code is among the enabled currencies.
func (s CurrencySet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the enabled codes in no particular order.
func (s CurrencySet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	return codes
}

// NewCurrencySet builds a set from a list of currencies, keeping enabled ones only.
func NewCurrencySet(currencies []Currency) CurrencySet {
	set := make(CurrencySet, len(currencies))
	for _, c := range currencies {
		if c.Enabled {
			set[c.CurrencyCode] = c
		}
	}
	return set
}
