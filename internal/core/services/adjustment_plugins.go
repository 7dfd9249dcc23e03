package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// AdjustmentTarget selects whether a plugin applies to the whole order or to each item.
type AdjustmentTarget string

const (
	TargetOrder     AdjustmentTarget = "order"
	TargetOrderItem AdjustmentTarget = "order_item"
)

// FixedAmountFee adds a fixed fee in the resolved currency.
// Order fees are split between the items proportionally to their totals.
type FixedAmountFee struct {
	FeeID  string
	Label  string
	Target AdjustmentTarget
	Config AmountConfig

	amounts    *AmountFieldResolver
	currencies portssvc.CurrencyReaderSvc
}

// NewFixedAmountFee creates a fee plugin.
func NewFixedAmountFee(id, label string, target AdjustmentTarget, cfg AmountConfig, amounts *AmountFieldResolver, currencies portssvc.CurrencyReaderSvc) *FixedAmountFee {
	return &FixedAmountFee{FeeID: id, Label: label, Target: target, Config: cfg, amounts: amounts, currencies: currencies}
}

var _ portssvc.OrderProcessor = (*FixedAmountFee)(nil)

// ID returns the fee id stamped on its adjustments.
func (f *FixedAmountFee) ID() string { return f.FeeID }

// Apply replaces the fee adjustments of order and recalculates its totals. Items priced
// in another currency than the fee are skipped. On error the order is left as it was.
func (f *FixedAmountFee) Apply(ctx context.Context, req *domain.RequestContext, order *domain.Order) error {
	amount, err := f.amounts.Apply(ctx, req, f.Config)
	if err != nil {
		return fmt.Errorf("fee %s: %w", f.FeeID, err)
	}
	places := f.currencies.Precision(ctx, amount.Currency())
	label := f.Label
	if label == "" {
		label = "Fee"
	}

	return withRollback(order, func() error {
		removeSourceAdjustments(order, f.FeeID)

		switch f.Target {
		case TargetOrderItem:
			for i := range order.Items {
				item := &order.Items[i]
				if item.UnitPrice.Currency() != amount.Currency() {
					continue
				}
				item.Adjustments = append(item.Adjustments, domain.Adjustment{
					Type:     domain.AdjustmentTypeFee,
					Label:    label,
					Amount:   amount.Multiply(item.Quantity).Round(places),
					SourceID: f.FeeID,
				})
			}
		default:
			for i, share := range splitAmount(order, amount, places) {
				item := &order.Items[i]
				item.Adjustments = append(item.Adjustments, domain.Adjustment{
					Type:     domain.AdjustmentTypeFee,
					Label:    label,
					Amount:   share,
					SourceID: f.FeeID,
				})
			}
		}
		return order.RecalculateTotalPrice()
	})
}

// FixedAmountOff is a promotion taking a fixed amount off the order or each item.
// A non-nil Condition must hold for the order total before the discount is applied.
type FixedAmountOff struct {
	PromotionID string
	Target      AdjustmentTarget
	Config      AmountConfig
	Condition   *OrderTotalCondition

	amounts    *AmountFieldResolver
	currencies portssvc.CurrencyReaderSvc
}

// NewFixedAmountOff creates a fixed discount plugin.
func NewFixedAmountOff(id string, target AdjustmentTarget, cfg AmountConfig, amounts *AmountFieldResolver, currencies portssvc.CurrencyReaderSvc) *FixedAmountOff {
	return &FixedAmountOff{PromotionID: id, Target: target, Config: cfg, amounts: amounts, currencies: currencies}
}

var _ portssvc.OrderProcessor = (*FixedAmountOff)(nil)

// ID returns the promotion id stamped on its adjustments.
func (p *FixedAmountOff) ID() string { return p.PromotionID }

// Apply replaces the discount adjustments of order and recalculates its totals.
// A discount never exceeds the subtotal (order target) or the item total (item target).
// On error the order is left as it was.
func (p *FixedAmountOff) Apply(ctx context.Context, req *domain.RequestContext, order *domain.Order) error {
	return withRollback(order, func() error {
		removeSourceAdjustments(order, p.PromotionID)
		if err := order.RecalculateTotalPrice(); err != nil {
			return err
		}

		if p.Condition != nil {
			ok, err := p.Condition.Evaluate(ctx, order)
			if err != nil {
				return fmt.Errorf("promotion %s condition: %w", p.PromotionID, err)
			}
			if !ok {
				return nil
			}
		}

		if p.Target == TargetOrderItem {
			return p.applyToItems(ctx, req, order)
		}
		return p.applyToOrder(ctx, order)
	})
}

func (p *FixedAmountOff) applyToOrder(ctx context.Context, order *domain.Order) error {
	if order.SubtotalPrice == nil {
		return nil
	}
	subtotal := *order.SubtotalPrice

	amount := p.Config.Amount
	if amount.Currency() != subtotal.Currency() {
		var err error
		if amount, err = p.amounts.Resolve(ctx, p.Config, subtotal.Currency()); err != nil {
			return fmt.Errorf("promotion %s: %w", p.PromotionID, err)
		}
	}
	if over, err := amount.GreaterThan(subtotal); err != nil {
		return fmt.Errorf("promotion %s: %w", p.PromotionID, err)
	} else if over {
		amount = subtotal
	}

	places := p.currencies.Precision(ctx, amount.Currency())
	for i, share := range splitAmount(order, amount, places) {
		item := &order.Items[i]
		item.Adjustments = append(item.Adjustments, discountAdjustment(p.PromotionID, share))
	}
	return order.RecalculateTotalPrice()
}

func (p *FixedAmountOff) applyToItems(ctx context.Context, req *domain.RequestContext, order *domain.Order) error {
	amount, err := p.amounts.Apply(ctx, req, p.Config)
	if err != nil {
		return fmt.Errorf("promotion %s: %w", p.PromotionID, err)
	}
	places := p.currencies.Precision(ctx, amount.Currency())

	for i := range order.Items {
		item := &order.Items[i]
		if item.UnitPrice.Currency() != amount.Currency() {
			continue
		}
		itemTotal := item.TotalPrice()
		discount := amount.Multiply(item.Quantity).Round(places)
		if over, err := discount.GreaterThan(itemTotal); err != nil {
			return fmt.Errorf("promotion %s item %s: %w", p.PromotionID, item.OrderItemID, err)
		} else if over {
			discount = itemTotal
		}
		item.Adjustments = append(item.Adjustments, discountAdjustment(p.PromotionID, discount))
	}
	return order.RecalculateTotalPrice()
}

// removeSourceAdjustments drops every order and item adjustment created by sourceID.
func removeSourceAdjustments(order *domain.Order, sourceID string) {
	order.Adjustments = withoutSource(order.Adjustments, sourceID)
	for i := range order.Items {
		order.Items[i].Adjustments = withoutSource(order.Items[i].Adjustments, sourceID)
	}
}

func withoutSource(adjustments []domain.Adjustment, sourceID string) []domain.Adjustment {
	if len(adjustments) == 0 {
		return adjustments
	}
	kept := make([]domain.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		if adj.SourceID != sourceID {
			kept = append(kept, adj)
		}
	}
	return kept
}

// withRollback runs fn and restores the adjustments and totals of order when it fails.
func withRollback(order *domain.Order, fn func() error) error {
	orderAdjustments := order.Adjustments
	itemAdjustments := make([][]domain.Adjustment, len(order.Items))
	for i, item := range order.Items {
		itemAdjustments[i] = append([]domain.Adjustment(nil), item.Adjustments...)
	}
	subtotal, total := order.SubtotalPrice, order.TotalPrice

	if err := fn(); err != nil {
		order.Adjustments = orderAdjustments
		for i := range order.Items {
			order.Items[i].Adjustments = itemAdjustments[i]
		}
		order.SubtotalPrice, order.TotalPrice = subtotal, total
		return err
	}
	return nil
}

func discountAdjustment(sourceID string, amount domain.Money) domain.Adjustment {
	return domain.Adjustment{
		Type:     domain.AdjustmentTypePromotion,
		Label:    "Discount",
		Amount:   amount.Negate(),
		SourceID: sourceID,
	}
}

// splitAmount distributes amount over the order items proportionally to their totals,
// keyed by item index. The last priced item absorbs the rounding remainder.
func splitAmount(order *domain.Order, amount domain.Money, places int32) map[int]domain.Money {
	shares := make(map[int]domain.Money)

	total := decimal.Zero
	var priced []int
	for i, item := range order.Items {
		if item.UnitPrice.Currency() != amount.Currency() {
			continue
		}
		itemTotal := item.TotalPrice().Amount()
		if itemTotal.IsPositive() {
			total = total.Add(itemTotal)
			priced = append(priced, i)
		}
	}
	if len(priced) == 0 {
		return shares
	}

	remaining := amount
	for n, i := range priced {
		if n == len(priced)-1 {
			shares[i] = remaining
			break
		}
		ratio := order.Items[i].TotalPrice().Amount().Div(total)
		share := amount.Multiply(ratio).Round(places)
		shares[i] = share
		remaining, _ = remaining.Subtract(share)
	}
	return shares
}
