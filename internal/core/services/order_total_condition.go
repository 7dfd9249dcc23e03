package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
)

// OrderTotalCondition compares the order total against a configured amount.
//
// When the total is in another currency the amount is converted if Autocalculate is set,
// otherwise the per-currency field is used; without one the condition does not match.
type OrderTotalCondition struct {
	Operator      string
	Config        AmountConfig
	Autocalculate bool

	amounts *AmountFieldResolver
}

// NewOrderTotalCondition creates an order total condition.
func NewOrderTotalCondition(operator string, cfg AmountConfig, autocalculate bool, amounts *AmountFieldResolver) *OrderTotalCondition {
	return &OrderTotalCondition{Operator: operator, Config: cfg, Autocalculate: autocalculate, amounts: amounts}
}

// Evaluate reports whether order satisfies the condition.
func (c *OrderTotalCondition) Evaluate(ctx context.Context, order *domain.Order) (bool, error) {
	if order == nil || order.TotalPrice == nil {
		return false, nil
	}
	total := *order.TotalPrice

	threshold := c.Config.Amount
	if threshold.Currency() != total.Currency() {
		if c.Autocalculate {
			converted, err := c.amounts.converter.Convert(ctx, threshold, total.Currency())
			if err != nil {
				return false, err
			}
			threshold = converted
		} else {
			field, ok := c.Config.FieldAmount(total.Currency())
			if !ok {
				return false, nil
			}
			threshold = field
		}
	}

	cmp, err := total.Compare(threshold)
	if err != nil {
		return false, err
	}

	switch c.Operator {
	case ">=":
		return cmp >= 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case "<":
		return cmp < 0, nil
	case "==":
		return cmp == 0, nil
	default:
		return false, fmt.Errorf("%w: invalid operator %q", apperrors.ErrValidation, c.Operator)
	}
}
