package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

type priceResolver struct {
	BaseService
	settings  portssvc.SettingsProvider
	currency  portssvc.CurrencyResolverSvc
	converter portssvc.PriceConverterSvc
	exec      portssvc.ExecutionContext
	catalog   portssvc.CatalogReader
}

// PriceResolver is both the storefront price resolver and the order item pricer.
type PriceResolver interface {
	portssvc.PriceResolverSvc
	portssvc.PurchasedItemPricer
}

// NewPriceResolver creates a price resolver. catalog may be nil when no catalog is wired,
// in which case order items cannot be re-priced.
func NewPriceResolver(settings portssvc.SettingsProvider, currency portssvc.CurrencyResolverSvc, converter portssvc.PriceConverterSvc, exec portssvc.ExecutionContext, catalog portssvc.CatalogReader) PriceResolver {
	if exec == nil {
		exec = RequestExecutionContext{}
	}
	return &priceResolver{settings: settings, currency: currency, converter: converter, exec: exec, catalog: catalog}
}

// Resolve returns the price of purchasable in the resolved currency of req. A missing
// exchange source falls back to the unconverted price.
func (r *priceResolver) Resolve(ctx context.Context, req *domain.RequestContext, purchasable portssvc.Purchasable) (domain.Money, error) {
	price := purchasable.Price()
	if price.IsEmpty() || r.exec.IsNonInteractive(req) {
		return price, nil
	}

	resolved, err := r.priceIn(ctx, purchasable, r.currency.GetCurrency(ctx, req))
	if errors.Is(err, apperrors.ErrMissingExchangeSource) {
		r.LogWarn(ctx, "No exchange source configured, showing original price",
			slog.String("purchasable_id", purchasable.PurchasableID()),
			slog.String("currency", price.Currency()))
		return price, nil
	}
	return resolved, err
}

// PriceOrderItem returns the unit price of a catalog-linked item in target.
func (r *priceResolver) PriceOrderItem(ctx context.Context, req *domain.RequestContext, item domain.OrderItem, target string) (domain.Money, error) {
	if r.catalog == nil || !item.HasPurchasedEntity() {
		return r.converter.Convert(ctx, item.UnitPrice, target)
	}
	purchasable, err := r.catalog.FindPurchasable(ctx, item.PurchasedEntityID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to load purchasable %s: %w", item.PurchasedEntityID, err)
	}
	if purchasable.Price().IsEmpty() {
		return r.converter.Convert(ctx, item.UnitPrice, target)
	}
	return r.priceIn(ctx, purchasable, target)
}

func (r *priceResolver) priceIn(ctx context.Context, purchasable portssvc.Purchasable, target string) (domain.Money, error) {
	price := purchasable.Price()
	if target == "" || price.Currency() == target {
		return price, nil
	}

	switch r.settings.ResolverSettings().PriceSource {
	case domain.PriceSourceField, domain.PriceSourceCombo:
		if field, ok := purchasable.FieldPrice(target); ok {
			return field, nil
		}
	}
	return r.converter.Convert(ctx, price, target)
}
