// Package locale adapts request locale signals (country, language, store host) to the
// currency resolver.
package locale

import (
	"context"
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// HeaderGeoLocator reads the visitor country from a header set by a CDN or proxy,
// e.g. CF-IPCountry.
type HeaderGeoLocator struct {
	Header string
}

var _ portssvc.GeoLocator = HeaderGeoLocator{}

// CountryForRequest returns the upper-case region code, or "" when the header is missing,
// unknown (XX) or not a valid region.
func (g HeaderGeoLocator) CountryForRequest(_ context.Context, req *domain.RequestContext) string {
	value := strings.ToUpper(strings.TrimSpace(req.Header(g.Header)))
	if value == "" || value == "XX" {
		return ""
	}
	region, err := language.ParseRegion(value)
	if err != nil || !region.IsCountry() {
		return ""
	}
	return region.String()
}

// NoGeoLocator never knows the country.
type NoGeoLocator struct{}

func (NoGeoLocator) CountryForRequest(context.Context, *domain.RequestContext) string { return "" }

// RegionCurrency derives a country's native currency from CLDR data.
type RegionCurrency struct{}

var _ portssvc.DomicileCurrencyResolver = RegionCurrency{}

func (RegionCurrency) CurrencyForCountry(country string) (string, bool) {
	region, err := language.ParseRegion(country)
	if err != nil {
		return "", false
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return "", false
	}
	return unit.String(), true
}
