package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/SscSPs/currency_resolver/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMapping_PreservesAggregate(t *testing.T) {
	total := domain.MustMoney("68.50", "HRK")
	order := &domain.Order{
		OrderID:    "order-1",
		State:      domain.OrderStateDraft,
		CustomerID: "user-1",
		IsCart:     true,
		Items: []domain.OrderItem{{
			OrderItemID: "item-1",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   total,
		}},
		TotalPrice:   &total,
		UpdatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		SkipRefresh:  true,
		RefreshState: domain.RefreshStateSkip,
	}

	row, err := ToModelOrder(order)
	require.NoError(t, err)
	assert.Equal(t, "draft", row.State)
	require.NotNil(t, row.CustomerID)
	assert.Equal(t, "user-1", *row.CustomerID)

	back, err := ToDomainOrder(row)
	require.NoError(t, err)
	assert.Equal(t, "order-1", back.OrderID)
	assert.Equal(t, "user-1", back.CustomerID)
	require.NotNil(t, back.TotalPrice)
	assert.True(t, back.TotalPrice.Equals(total))
	assert.False(t, back.SkipRefresh, "transient flags are not persisted")
	assert.Equal(t, domain.RefreshStateNone, back.RefreshState)
}

func TestOrderMapping_AnonymousCart(t *testing.T) {
	row, err := ToModelOrder(&domain.Order{OrderID: "cart-1", IsCart: true})
	require.NoError(t, err)
	assert.Nil(t, row.CustomerID)
}

func TestToDomainOrder_RejectsBrokenPayload(t *testing.T) {
	_, err := ToDomainOrder(models.Order{OrderID: "x", Payload: []byte("{")})
	assert.Error(t, err)
}

func TestExchangeRateMapping(t *testing.T) {
	m := ToModelExchangeRate(domain.ExchangeRate{
		ProviderID:       domain.ProviderECB,
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.RequireFromString("1.0850"),
		Manual:           true,
	})
	assert.Equal(t, "EUR", m.BaseCurrency)
	assert.Equal(t, "USD", m.TargetCurrency)

	d := ToDomainExchangeRate(m)
	assert.Equal(t, "EUR", d.FromCurrencyCode)
	assert.True(t, d.Manual)
}
