package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

// OrderReconciler converts a mismatched order into the resolved currency in one pass.
type OrderReconciler struct {
	BaseService
	currency  portssvc.CurrencyResolverSvc
	converter portssvc.PriceConverterSvc
	policy    *RefreshPolicy
	shipping  portssvc.ShippingMethodRegistry
	rates     *ShippingRateConverter
	pricer    portssvc.PurchasedItemPricer
}

// amountConfigured is implemented by shipping methods whose rates carry per-currency
// overrides.
type amountConfigured interface {
	AmountConfig() AmountConfig
}

// ReconcilerOption configures optional collaborators of the reconciler.
type ReconcilerOption func(*OrderReconciler)

// WithShippingMethods enables rate recalculation for shipments.
func WithShippingMethods(registry portssvc.ShippingMethodRegistry) ReconcilerOption {
	return func(r *OrderReconciler) {
		r.shipping = registry
	}
}

// WithShippingRateConverter aligns every recalculated rate with the target currency before
// one is selected.
func WithShippingRateConverter(converter *ShippingRateConverter) ReconcilerOption {
	return func(r *OrderReconciler) {
		r.rates = converter
	}
}

// WithItemPricer re-prices catalog-linked items through pricer.
func WithItemPricer(pricer portssvc.PurchasedItemPricer) ReconcilerOption {
	return func(r *OrderReconciler) {
		r.pricer = pricer
	}
}

// NewOrderReconciler creates an OrderReconciler.
func NewOrderReconciler(currency portssvc.CurrencyResolverSvc, converter portssvc.PriceConverterSvc, policy *RefreshPolicy, opts ...ReconcilerOption) *OrderReconciler {
	r := &OrderReconciler{currency: currency, converter: converter, policy: policy}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ portssvc.OrderReconcilerSvc = (*OrderReconciler)(nil)

// Reconcile brings order into the currency resolved for req.
//
// Orders already in that currency, orders without a total and orders refused by the
// refresh policy are left untouched and reported as matched. On error the order may be
// partially converted and must not be saved.
func (r *OrderReconciler) Reconcile(ctx context.Context, req *domain.RequestContext, order *domain.Order) (portssvc.ReconcileOutcome, error) {
	if order == nil {
		return "", fmt.Errorf("%w: order is nil", apperrors.ErrValidation)
	}

	resolved := r.currency.GetCurrency(ctx, req)
	current := order.ComparableCurrency()
	if current == "" || resolved == "" || current == resolved {
		return portssvc.OutcomeMatched, nil
	}

	if ok, refusedBy := r.policy.Evaluate(order, req); !ok {
		r.LogDebug(ctx, "Order currency differs but refresh is not allowed",
			slog.String("order_id", order.OrderID),
			slog.String("refused_by", refusedBy))
		return portssvc.OutcomeMatched, nil
	}

	logger := r.GetLogger(ctx).With(
		slog.String("order_id", order.OrderID),
		slog.String("from", current),
		slog.String("to", resolved))
	logger.Info("Reconciling order currency")

	if err := r.convertItems(ctx, req, order, resolved); err != nil {
		return "", err
	}

	shipmentsChanged, err := r.convertShipments(ctx, req, order, resolved)
	if err != nil {
		return "", err
	}

	adjustmentsReset, err := r.convertAdjustments(ctx, order, resolved)
	if err != nil {
		return "", err
	}

	if !adjustmentsReset {
		if err := order.RecalculateTotalPrice(); err != nil {
			return "", fmt.Errorf("failed to recalculate order %s: %w", order.OrderID, err)
		}
	}

	order.RefreshState = domain.RefreshStateSkip
	logger.Info("Order currency reconciled",
		slog.Bool("shipments_changed", shipmentsChanged),
		slog.Bool("adjustments_reset", adjustmentsReset))
	return portssvc.OutcomeReconciled, nil
}

func (r *OrderReconciler) convertItems(ctx context.Context, req *domain.RequestContext, order *domain.Order, target string) error {
	for i := range order.Items {
		item := &order.Items[i]
		if item.UnitPrice.IsEmpty() {
			continue
		}

		if item.UnitPrice.Currency() != target {
			var price domain.Money
			var err error
			if item.HasPurchasedEntity() && r.pricer != nil {
				price, err = r.pricer.PriceOrderItem(ctx, req, *item, target)
			} else {
				price, err = r.converter.Convert(ctx, item.UnitPrice, target)
			}
			if err != nil {
				return fmt.Errorf("failed to convert order item %s: %w", item.OrderItemID, err)
			}
			item.UnitPrice = price
		}

		adjustments, _, err := r.replacementAdjustments(ctx, item.Adjustments, target)
		if err != nil {
			return fmt.Errorf("failed to convert adjustments of order item %s: %w", item.OrderItemID, err)
		}
		item.Adjustments = adjustments
	}
	return nil
}

func (r *OrderReconciler) convertShipments(ctx context.Context, req *domain.RequestContext, order *domain.Order, target string) (bool, error) {
	if len(order.Shipments) == 0 {
		return false, nil
	}

	shipments := make([]domain.Shipment, len(order.Shipments))
	copy(shipments, order.Shipments)

	changed := false
	for i := range shipments {
		s := &shipments[i]
		if s.Amount == nil || s.Amount.Currency() == target {
			continue
		}

		selected, err := r.selectShippingRate(ctx, req, s)
		if err != nil {
			return false, fmt.Errorf("failed to recalculate rates for shipment %s: %w", s.ShipmentID, err)
		}
		if !selected || s.Amount.Currency() != target {
			if err := r.convertShipmentAmounts(ctx, s, target); err != nil {
				return false, fmt.Errorf("failed to convert shipment %s: %w", s.ShipmentID, err)
			}
		}
		changed = true
	}

	if changed {
		order.Shipments = shipments
	}
	return changed, nil
}

// selectShippingRate recalculates the shipment's rates and selects the first one.
// It reports false when no method or no rate is available.
func (r *OrderReconciler) selectShippingRate(ctx context.Context, req *domain.RequestContext, s *domain.Shipment) (bool, error) {
	if r.shipping == nil || s.ShippingMethodID == "" {
		return false, nil
	}
	method, ok := r.shipping.ShippingMethod(s.ShippingMethodID)
	if !ok {
		return false, nil
	}
	rates, err := method.CalculateRates(ctx, req, s)
	if err != nil {
		return false, err
	}
	if r.rates != nil {
		var cfg AmountConfig
		if configured, ok := method.(amountConfigured); ok {
			cfg = configured.AmountConfig()
		}
		if rates, err = r.rates.Align(ctx, req, s, cfg, rates); err != nil {
			return false, err
		}
	}
	if len(rates) == 0 {
		return false, nil
	}
	method.SelectRate(s, rates[0])
	return true, nil
}

func (r *OrderReconciler) convertShipmentAmounts(ctx context.Context, s *domain.Shipment, target string) error {
	amount, err := r.converter.Convert(ctx, *s.Amount, target)
	if err != nil {
		return err
	}
	s.SetAmount(amount)

	if s.OriginalAmount != nil && s.OriginalAmount.Currency() != target {
		original, err := r.converter.Convert(ctx, *s.OriginalAmount, target)
		if err != nil {
			return err
		}
		s.OriginalAmount = &original
	}
	return nil
}

func (r *OrderReconciler) convertAdjustments(ctx context.Context, order *domain.Order, target string) (bool, error) {
	adjustments, replaced, err := r.replacementAdjustments(ctx, order.Adjustments, target)
	if err != nil {
		return false, fmt.Errorf("failed to convert adjustments of order %s: %w", order.OrderID, err)
	}
	if !replaced {
		return false, nil
	}

	// Re-added one by one so the last add recalculates with every shipment and item converted.
	order.SetAdjustments(nil)
	if len(adjustments) == 0 {
		if err := order.RecalculateTotalPrice(); err != nil {
			return false, fmt.Errorf("failed to recalculate order %s: %w", order.OrderID, err)
		}
		return true, nil
	}
	for _, adj := range adjustments {
		if err := order.AddAdjustment(adj); err != nil {
			return false, fmt.Errorf("failed to re-add adjustment %q of order %s: %w", adj.Label, order.OrderID, err)
		}
	}
	return true, nil
}

// replacementAdjustments keeps adjustments already in target, converts locked ones that
// are not and drops unlocked foreign ones, which their processors regenerate.
func (r *OrderReconciler) replacementAdjustments(ctx context.Context, adjustments []domain.Adjustment, target string) ([]domain.Adjustment, bool, error) {
	if len(adjustments) == 0 {
		return adjustments, false, nil
	}

	replaced := false
	result := make([]domain.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.Amount.Currency() == target {
			result = append(result, adj)
			continue
		}
		replaced = true
		if !adj.Locked {
			continue
		}
		amount, err := r.converter.Convert(ctx, adj.Amount, target)
		if err != nil {
			return nil, false, err
		}
		result = append(result, adj.WithAmount(amount))
	}
	return result, replaced, nil
}
