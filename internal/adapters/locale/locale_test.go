package locale_test

import (
	"context"
	"testing"

	"github.com/SscSPs/currency_resolver/internal/adapters/locale"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestHeaderGeoLocator(t *testing.T) {
	geo := locale.HeaderGeoLocator{Header: "CF-IPCountry"}
	ctx := context.Background()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "country code", header: "hr", want: "HR"},
		{name: "unknown country", header: "XX", want: ""},
		{name: "missing header", header: "", want: ""},
		{name: "not a region", header: "12345", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &domain.RequestContext{Headers: map[string]string{"Cf-Ipcountry": tt.header}}
			assert.Equal(t, tt.want, geo.CountryForRequest(ctx, req))
		})
	}

	assert.Equal(t, "", locale.NoGeoLocator{}.CountryForRequest(ctx, &domain.RequestContext{}))
}

func TestRegionCurrency(t *testing.T) {
	code, ok := locale.RegionCurrency{}.CurrencyForCountry("JP")
	assert.True(t, ok)
	assert.Equal(t, "JPY", code)

	code, ok = locale.RegionCurrency{}.CurrencyForCountry("US")
	assert.True(t, ok)
	assert.Equal(t, "USD", code)

	_, ok = locale.RegionCurrency{}.CurrencyForCountry("not-a-region")
	assert.False(t, ok)
}

func TestAcceptLanguageContext(t *testing.T) {
	lang := locale.NewAcceptLanguageContext([]string{"en", "hr", "de"})
	ctx := context.Background()

	assert.Equal(t, "hr", lang.CurrentLanguage(ctx, &domain.RequestContext{AcceptLanguage: "hr-HR,hr;q=0.9,en;q=0.8"}))
	assert.Equal(t, "de", lang.CurrentLanguage(ctx, &domain.RequestContext{AcceptLanguage: "de-AT"}))
	assert.Equal(t, "en", lang.CurrentLanguage(ctx, &domain.RequestContext{AcceptLanguage: "ja"}), "unsupported falls back to the first language")
	assert.Equal(t, "en", lang.CurrentLanguage(ctx, &domain.RequestContext{}))
	assert.Equal(t, "fr", lang.CurrentLanguage(ctx, &domain.RequestContext{Language: "fr"}), "explicit request language wins")
}

func TestHostStoreContext(t *testing.T) {
	store := locale.HostStoreContext{Currencies: map[string]string{"shop.hr": "HRK"}}
	ctx := context.Background()

	assert.Equal(t, "HRK", store.DefaultCurrency(ctx, &domain.RequestContext{Host: "SHOP.hr"}))
	assert.Equal(t, "", store.DefaultCurrency(ctx, &domain.RequestContext{Host: "shop.de"}))
	assert.Equal(t, "", store.DefaultCurrency(ctx, nil))
}
