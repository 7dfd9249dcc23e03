package services

import (
	"context"
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// AmountField is a manually entered amount for one currency.
type AmountField struct {
	Number       string `json:"number" mapstructure:"number"`
	CurrencyCode string `json:"currencyCode" mapstructure:"currency_code"`
}

// Money returns the field as Money. ok is false when the number is empty or not numeric.
func (f AmountField) Money() (domain.Money, bool) {
	if strings.TrimSpace(f.Number) == "" || f.CurrencyCode == "" {
		return domain.Money{}, false
	}
	m, err := domain.NewMoneyFromString(f.Number, f.CurrencyCode)
	if err != nil {
		return domain.Money{}, false
	}
	return m, true
}

// AmountConfig is the configuration shared by pricing plugins: one default amount and
// optional per-currency overrides keyed by currency code.
type AmountConfig struct {
	Amount           domain.Money
	Fields           map[string]AmountField
	UseMulticurrency bool
}

// FieldAmount returns the override stored for currency, if usable.
func (c AmountConfig) FieldAmount(currency string) (domain.Money, bool) {
	field, ok := c.Fields[currency]
	if !ok {
		return domain.Money{}, false
	}
	return field.Money()
}

// AmountFieldResolver resolves configured plugin amounts in a target currency.
type AmountFieldResolver struct {
	converter portssvc.PriceConverterSvc
	currency  portssvc.CurrencyResolverSvc
	exec      portssvc.ExecutionContext
}

// NewAmountFieldResolver creates an AmountFieldResolver. A nil exec treats requests
// flagged NonInteractive as CLI.
func NewAmountFieldResolver(converter portssvc.PriceConverterSvc, currency portssvc.CurrencyResolverSvc, exec portssvc.ExecutionContext) *AmountFieldResolver {
	if exec == nil {
		exec = RequestExecutionContext{}
	}
	return &AmountFieldResolver{converter: converter, currency: currency, exec: exec}
}

// Resolve returns the override for target verbatim when one is set, else the converted
// default amount.
func (r *AmountFieldResolver) Resolve(ctx context.Context, cfg AmountConfig, target string) (domain.Money, error) {
	if m, ok := cfg.FieldAmount(target); ok {
		return m, nil
	}
	return r.converter.Convert(ctx, cfg.Amount, target)
}

// ShouldRefresh reports whether an amount in currency must be re-resolved for req.
func (r *AmountFieldResolver) ShouldRefresh(ctx context.Context, req *domain.RequestContext, currency string) bool {
	if r.exec.IsNonInteractive(req) {
		return false
	}
	return r.CurrentCurrency(ctx, req) != currency
}

// CurrentCurrency is the resolved currency of req.
func (r *AmountFieldResolver) CurrentCurrency(ctx context.Context, req *domain.RequestContext) string {
	return r.currency.GetCurrency(ctx, req)
}

// Apply resolves cfg for the current request. The configured amount is returned
// unchanged when multicurrency is off, outside interactive requests, or when it is
// already in the resolved currency.
func (r *AmountFieldResolver) Apply(ctx context.Context, req *domain.RequestContext, cfg AmountConfig) (domain.Money, error) {
	if !cfg.UseMulticurrency || !r.ShouldRefresh(ctx, req, cfg.Amount.Currency()) {
		return cfg.Amount, nil
	}
	return r.Resolve(ctx, cfg, r.CurrentCurrency(ctx, req))
}

// ApplyTimes is Apply multiplied by quantity and rounded to places.
func (r *AmountFieldResolver) ApplyTimes(ctx context.Context, req *domain.RequestContext, cfg AmountConfig, quantity decimal.Decimal, places int32) (domain.Money, error) {
	amount, err := r.Apply(ctx, req, cfg)
	if err != nil {
		return domain.Money{}, err
	}
	return amount.Multiply(quantity).Round(places), nil
}
