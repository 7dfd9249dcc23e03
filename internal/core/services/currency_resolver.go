package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

type resolvedCurrency struct {
	once     sync.Once
	currency string
}

// CurrencyResolver picks one currency per request and memoizes it under the request ID
// until Release is called.
type CurrencyResolver struct {
	BaseService
	settings   portssvc.SettingsProvider
	store      portssvc.StoreContext
	currencies portssvc.CurrencyReaderSvc
	language   portssvc.LanguageContext
	geo        portssvc.GeoLocator
	domicile   portssvc.DomicileCurrencyResolver

	mu   sync.Mutex
	memo map[string]*resolvedCurrency
}

// ResolverOption configures optional collaborators of the resolver.
type ResolverOption func(*CurrencyResolver)

// WithLanguageContext sets the language source used by the lang mapping.
func WithLanguageContext(l portssvc.LanguageContext) ResolverOption {
	return func(r *CurrencyResolver) {
		r.language = l
	}
}

// WithGeoLocator sets the country source used by the geo mapping.
func WithGeoLocator(g portssvc.GeoLocator) ResolverOption {
	return func(r *CurrencyResolver) {
		r.geo = g
	}
}

// WithDomicileCurrency sets the country to currency lookup used by domicile geo mapping.
func WithDomicileCurrency(d portssvc.DomicileCurrencyResolver) ResolverOption {
	return func(r *CurrencyResolver) {
		r.domicile = d
	}
}

// NewCurrencyResolver creates a resolver.
func NewCurrencyResolver(settings portssvc.SettingsProvider, store portssvc.StoreContext, currencies portssvc.CurrencyReaderSvc, opts ...ResolverOption) *CurrencyResolver {
	r := &CurrencyResolver{
		settings:   settings,
		store:      store,
		currencies: currencies,
		memo:       make(map[string]*resolvedCurrency),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ portssvc.CurrencyResolverSvc = (*CurrencyResolver)(nil)

// GetCurrency returns the resolved currency of req. The first call for a request ID runs
// the resolution; later calls return the stored value. A nil req is resolved without memo.
func (r *CurrencyResolver) GetCurrency(ctx context.Context, req *domain.RequestContext) string {
	if req == nil || req.ID == "" {
		return r.resolve(ctx, req)
	}

	r.mu.Lock()
	entry, ok := r.memo[req.ID]
	if !ok {
		entry = &resolvedCurrency{}
		r.memo[req.ID] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.currency = r.resolve(ctx, req)
	})
	return entry.currency
}

// Release forgets the value memoized for req.
func (r *CurrencyResolver) Release(req *domain.RequestContext) {
	if req == nil {
		return
	}
	r.mu.Lock()
	delete(r.memo, req.ID)
	r.mu.Unlock()
}

// DefaultCurrencyCode is the store default, or the configured fallback when no store resolves.
func (r *CurrencyResolver) DefaultCurrencyCode(ctx context.Context, req *domain.RequestContext) string {
	if r.store != nil {
		if code := r.store.DefaultCurrency(ctx, req); code != "" {
			return code
		}
	}
	return r.settings.ResolverSettings().DefaultCurrency
}

func (r *CurrencyResolver) resolve(ctx context.Context, req *domain.RequestContext) string {
	settings := r.settings.ResolverSettings()
	resolved := r.DefaultCurrencyCode(ctx, req)

	switch settings.Mapping {
	case domain.MappingCookie:
		name := settings.EffectiveCookieName()
		if req.HasCookie(name) {
			cookie := req.Cookie(name)
			if r.isEnabled(ctx, cookie) {
				resolved = cookie
			}
		}

	case domain.MappingLang:
		if code, ok := settings.Matrix.Lookup(r.currentLanguage(ctx, req)); ok {
			resolved = code
		}

	case domain.MappingGeo:
		country := r.country(ctx, req)
		if code, ok := settings.Matrix.Lookup(country); ok {
			resolved = code
		}
		if settings.Matrix.DomicileCurrency && r.domicile != nil && country != "" {
			if code, ok := r.domicile.CurrencyForCountry(country); ok && r.isEnabled(ctx, code) {
				resolved = code
			}
		}

	case domain.MappingStore:
	default:
		r.LogDebug(ctx, "Unknown currency mapping, keeping store default", slog.String("mapping", string(settings.Mapping)))
	}

	r.LogDebug(ctx, "Currency resolved",
		slog.String("mapping", string(settings.Mapping)),
		slog.String("currency", resolved))
	return resolved
}

func (r *CurrencyResolver) isEnabled(ctx context.Context, code string) bool {
	if code == "" {
		return false
	}
	enabled, err := r.currencies.EnabledCurrencies(ctx)
	if err != nil {
		r.LogError(ctx, err, "Failed to load enabled currencies")
		return false
	}
	return enabled.Has(code)
}

func (r *CurrencyResolver) currentLanguage(ctx context.Context, req *domain.RequestContext) string {
	if r.language != nil {
		return r.language.CurrentLanguage(ctx, req)
	}
	if req != nil {
		return req.Language
	}
	return ""
}

func (r *CurrencyResolver) country(ctx context.Context, req *domain.RequestContext) string {
	if r.geo != nil {
		return r.geo.CountryForRequest(ctx, req)
	}
	if req != nil {
		return req.Country
	}
	return ""
}
