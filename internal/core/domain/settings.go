package domain

import "strings"

// MappingStrategy selects how the resolved currency is picked.
type MappingStrategy string

const (
	MappingStore  MappingStrategy = "store"
	MappingCookie MappingStrategy = "cookie"
	MappingLang   MappingStrategy = "lang"
	MappingGeo    MappingStrategy = "geo"
)

// MatrixLogic records how admins authored the matrix. It does not affect lookups.
type MatrixLogic string

const (
	MatrixLogicCountry  MatrixLogic = "country"
	MatrixLogicCurrency MatrixLogic = "currency"
)

// PriceSource selects how product prices are resolved in a foreign currency.
type PriceSource string

const (
	PriceSourceAuto  PriceSource = "auto"
	PriceSourceField PriceSource = "field"
	PriceSourceCombo PriceSource = "combo"
)

// DefaultCookieName is the cookie holding the visitor's currency choice.
const DefaultCookieName = "commerce_currency"

// MappingMatrix maps a language or country code to a currency code.
type MappingMatrix struct {
	Entries          map[string]string `json:"entries"`
	DomicileCurrency bool              `json:"domicileCurrency"`
	Logic            MatrixLogic       `json:"logic"`
}

// Lookup is an exact-match lookup on key.
func (m MappingMatrix) Lookup(key string) (string, bool) {
	if key == "" || len(m.Entries) == 0 {
		return "", false
	}
	if v, ok := m.Entries[key]; ok && v != "" {
		return v, true
	}
	return "", false
}

// ResolverSettings is the read-only configuration surface of the currency engine.
// An empty ExchangeRateProvider means no provider is configured. StoreCurrencies maps a
// store host to its default currency.
type ResolverSettings struct {
	Mapping              MappingStrategy
	GeoProvider          string
	DefaultCurrency      string
	ExchangeRateProvider string
	CookieName           string
	Matrix               MappingMatrix
	PriceSource          PriceSource
	UseCrossSync         bool
	StrictCurrencies     bool
	AdminPathPrefix      string
	StoreCurrencies      map[string]string
}

// EffectiveCookieName returns the configured cookie name or the default one.
func (s ResolverSettings) EffectiveCookieName() string {
	if strings.TrimSpace(s.CookieName) == "" {
		return DefaultCookieName
	}
	return s.CookieName
}
