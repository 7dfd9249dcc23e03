package services

import (
	"context"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

// ShippingRateConverter brings rates computed by any shipping method into the currency
// the shipment must be charged in.
type ShippingRateConverter struct {
	converter portssvc.PriceConverterSvc
	currency  portssvc.CurrencyResolverSvc
	admin     portssvc.AdminRouteContext
}

// NewShippingRateConverter creates a ShippingRateConverter. admin may be nil.
func NewShippingRateConverter(converter portssvc.PriceConverterSvc, currency portssvc.CurrencyResolverSvc, admin portssvc.AdminRouteContext) *ShippingRateConverter {
	return &ShippingRateConverter{converter: converter, currency: currency, admin: admin}
}

// Align returns rates with every foreign rate replaced. On admin paths the shipment's own
// currency is the target, elsewhere the resolved currency. A numeric per-currency field of
// the method config wins over conversion.
func (c *ShippingRateConverter) Align(ctx context.Context, req *domain.RequestContext, shipment *domain.Shipment, cfg AmountConfig, rates []domain.ShippingRate) ([]domain.ShippingRate, error) {
	if len(rates) == 0 {
		return rates, nil
	}
	target := c.targetCurrency(ctx, req, shipment)
	if target == "" {
		return rates, nil
	}

	aligned := make([]domain.ShippingRate, len(rates))
	for i, rate := range rates {
		aligned[i] = rate
		if rate.Amount.Currency() == target {
			continue
		}
		if fixed, ok := cfg.FieldAmount(target); ok {
			aligned[i].Amount = fixed
			aligned[i].OriginalAmount = fixed
			continue
		}

		amount, err := c.converter.Convert(ctx, rate.Amount, target)
		if err != nil {
			return nil, err
		}
		aligned[i].Amount = amount

		if !rate.OriginalAmount.IsEmpty() {
			original, err := c.converter.Convert(ctx, rate.OriginalAmount, target)
			if err != nil {
				return nil, err
			}
			aligned[i].OriginalAmount = original
		} else {
			aligned[i].OriginalAmount = amount
		}
	}
	return aligned, nil
}

func (c *ShippingRateConverter) targetCurrency(ctx context.Context, req *domain.RequestContext, shipment *domain.Shipment) string {
	if c.admin != nil && c.admin.IsAdminPath(req) {
		if shipment != nil && shipment.Amount != nil {
			return shipment.Amount.Currency()
		}
		return ""
	}
	return c.currency.GetCurrency(ctx, req)
}
