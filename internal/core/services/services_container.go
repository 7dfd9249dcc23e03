package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/platform/config"
)

// Collaborators groups the adapters the services depend on. Nil members fall back to
// request fields or disable the feature.
type Collaborators struct {
	Store       portssvc.StoreContext
	Language    portssvc.LanguageContext
	Geo         portssvc.GeoLocator
	Domicile    portssvc.DomicileCurrencyResolver
	Catalog     portssvc.CatalogReader
	RateSources []portssvc.RateSource
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Collaborators) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{Settings: cfg}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)

	rateCache := NewCachedRateProvider(repos.ExchangeRateRepo, WithRateCacheTTL(cfg.RateCacheTTL))
	container.ExchangeRate = NewExchangeRateService(cfg, repos.ExchangeRateRepo, container.Currency, rateCache)
	container.ExchangeImport = NewExchangeImportService(cfg, repos.ExchangeRateRepo, container.Currency, rateCache, deps.RateSources...)

	resolver := NewCurrencyResolver(cfg, deps.Store, container.Currency,
		WithLanguageContext(deps.Language),
		WithGeoLocator(deps.Geo),
		WithDomicileCurrency(deps.Domicile),
	)
	container.Resolver = resolver
	container.Converter = NewPriceConverter(cfg, rateCache, container.Currency)

	exec := RequestExecutionContext{}
	priceResolver := NewPriceResolver(cfg, resolver, container.Converter, exec, deps.Catalog)
	container.PriceResolver = priceResolver

	amounts := NewAmountFieldResolver(container.Converter, resolver, exec)
	shipping, err := buildShippingMethods(cfg.ShippingMethods, amounts, container.Currency)
	if err != nil {
		return nil, err
	}

	processors, err := buildOrderProcessors(cfg, amounts, container.Currency)
	if err != nil {
		return nil, err
	}

	admin := PathPrefixAdminRoute{Prefix: cfg.AdminPathPrefix}
	policy := NewDefaultRefreshPolicy(admin, exec)
	reconciler := NewOrderReconciler(resolver, container.Converter, policy,
		WithShippingMethods(shipping),
		WithShippingRateConverter(NewShippingRateConverter(container.Converter, resolver, admin)),
		WithItemPricer(priceResolver),
	)
	container.Orders = NewOrderRefreshService(NewEntityStorage(repos.OrderRepo), reconciler, processors...)

	return container, nil
}

func buildShippingMethods(configs []config.ShippingMethodConfig, amounts *AmountFieldResolver, currencies portssvc.CurrencyReaderSvc) (ShippingMethods, error) {
	methods := make([]portssvc.ShippingMethod, 0, len(configs))
	for _, mc := range configs {
		cfg, err := amountConfig(mc.Amount, mc.CurrencyCode, mc.Fields, mc.UseMulticurrency)
		if err != nil {
			return nil, fmt.Errorf("shipping method %s: %w", mc.ID, err)
		}

		switch mc.Type {
		case "flat_rate_per_item":
			methods = append(methods, NewFlatRatePerItemShipping(mc.ID, mc.Service, cfg, amounts, currencies))
		default:
			methods = append(methods, NewFlatRateShipping(mc.ID, mc.Service, cfg, amounts))
		}
	}
	return NewShippingMethods(methods...), nil
}

// buildOrderProcessors returns the configured fees followed by the promotions.
func buildOrderProcessors(cfg *config.Config, amounts *AmountFieldResolver, currencies portssvc.CurrencyReaderSvc) ([]portssvc.OrderProcessor, error) {
	processors := make([]portssvc.OrderProcessor, 0, len(cfg.Fees)+len(cfg.Promotions))
	for _, fc := range cfg.Fees {
		amount, err := amountConfig(fc.Amount, fc.CurrencyCode, fc.Fields, fc.UseMulticurrency)
		if err != nil {
			return nil, fmt.Errorf("fee %s: %w", fc.ID, err)
		}
		processors = append(processors, NewFixedAmountFee(fc.ID, fc.Label, adjustmentTarget(fc.Target), amount, amounts, currencies))
	}
	for _, pc := range cfg.Promotions {
		amount, err := amountConfig(pc.Amount, pc.CurrencyCode, pc.Fields, pc.UseMulticurrency)
		if err != nil {
			return nil, fmt.Errorf("promotion %s: %w", pc.ID, err)
		}
		promotion := NewFixedAmountOff(pc.ID, adjustmentTarget(pc.Target), amount, amounts, currencies)
		if cc := pc.Condition; cc != nil {
			threshold, err := amountConfig(cc.Amount, cc.CurrencyCode, cc.Fields, false)
			if err != nil {
				return nil, fmt.Errorf("promotion %s condition: %w", pc.ID, err)
			}
			promotion.Condition = NewOrderTotalCondition(cc.Operator, threshold, cc.Autocalculate, amounts)
		}
		processors = append(processors, promotion)
	}
	return processors, nil
}

func amountConfig(number, currencyCode string, fields map[string]config.FieldAmount, multicurrency bool) (AmountConfig, error) {
	amount, err := domain.NewMoneyFromString(number, currencyCode)
	if err != nil {
		return AmountConfig{}, err
	}
	cfg := AmountConfig{Amount: amount, UseMulticurrency: multicurrency}
	if len(fields) > 0 {
		cfg.Fields = make(map[string]AmountField, len(fields))
		for code, f := range fields {
			cfg.Fields[strings.ToUpper(code)] = AmountField{Number: f.Number, CurrencyCode: strings.ToUpper(f.CurrencyCode)}
		}
	}
	return cfg, nil
}

func adjustmentTarget(target string) AdjustmentTarget {
	if AdjustmentTarget(target) == TargetOrderItem {
		return TargetOrderItem
	}
	return TargetOrder
}
