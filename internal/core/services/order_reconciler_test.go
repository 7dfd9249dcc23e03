package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderReconcilerTestSuite struct {
	suite.Suite
	settings  settingsStub
	converter portssvc.PriceConverterSvc
	resolver  fixedCurrency
	policy    *services.RefreshPolicy
	req       *domain.RequestContext
}

func (suite *OrderReconcilerTestSuite) SetupTest() {
	suite.settings = settingsStub{ExchangeRateProvider: domain.ProviderECB, DefaultCurrency: "USD"}
	suite.converter = services.NewPriceConverter(suite.settings, newFakeRateProvider(rate("USD", "HRK", "6.85")), newFakeCurrencies("USD", "HRK"))
	suite.resolver = fixedCurrency("HRK")
	suite.policy = services.NewDefaultRefreshPolicy(services.PathPrefixAdminRoute{Prefix: "/admin"}, nil)
	suite.req = &domain.RequestContext{ID: "req-1", Path: "/cart", CartIDs: []string{"order-1"}}
}

func (suite *OrderReconcilerTestSuite) newCart() *domain.Order {
	order := &domain.Order{
		OrderID: "order-1",
		State:   domain.OrderStateDraft,
		IsCart:  true,
		Items: []domain.OrderItem{{
			OrderItemID: "item-1",
			Title:       "T-shirt",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   domain.MustMoney("10", "USD"),
		}},
		Shipments: []domain.Shipment{{
			ShipmentID:       "ship-1",
			ShippingMethodID: "flat",
			ShippingService:  "default",
			ItemQuantity:     decimal.NewFromInt(1),
			Amount:           moneyPtr(domain.MustMoney("5", "USD")),
		}},
	}
	suite.Require().NoError(order.RecalculateTotalPrice())
	return order
}

func (suite *OrderReconcilerTestSuite) flatRateMethods() services.ShippingMethods {
	amounts := services.NewAmountFieldResolver(suite.converter, suite.resolver, nil)
	flat := services.NewFlatRateShipping("flat", "default", services.AmountConfig{
		Amount:           domain.MustMoney("5", "USD"),
		UseMulticurrency: true,
	}, amounts)
	return services.NewShippingMethods(flat)
}

func (suite *OrderReconcilerTestSuite) TestReconcile_ConvertsCartWithShippingMethod() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy,
		services.WithShippingMethods(suite.flatRateMethods()))
	order := suite.newCart()

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeReconciled, outcome)
	suite.True(order.Items[0].UnitPrice.Equals(domain.MustMoney("68.50", "HRK")), order.Items[0].UnitPrice.String())
	suite.True(order.Shipments[0].Amount.Equals(domain.MustMoney("34.25", "HRK")), order.Shipments[0].Amount.String())
	suite.True(order.Shipments[0].OriginalAmount.Equals(domain.MustMoney("34.25", "HRK")))
	suite.True(order.SubtotalPrice.Equals(domain.MustMoney("68.50", "HRK")))
	suite.True(order.TotalPrice.Equals(domain.MustMoney("102.75", "HRK")), order.TotalPrice.String())
	suite.Equal(domain.RefreshStateSkip, order.RefreshState)

	outcome, err = reconciler.Reconcile(context.Background(), suite.req, order)
	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeMatched, outcome)
}

func (suite *OrderReconcilerTestSuite) TestReconcile_AlignsShippingRates() {
	amounts := services.NewAmountFieldResolver(suite.converter, suite.resolver, nil)
	methods := services.NewShippingMethods(
		services.NewFlatRateShipping("flat", "default", services.AmountConfig{
			Amount: domain.MustMoney("5", "USD"),
			Fields: map[string]services.AmountField{"HRK": {Number: "30", CurrencyCode: "HRK"}},
		}, amounts),
	)
	rates := services.NewShippingRateConverter(suite.converter, suite.resolver, services.PathPrefixAdminRoute{Prefix: "/admin"})
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy,
		services.WithShippingMethods(methods),
		services.WithShippingRateConverter(rates))
	order := suite.newCart()

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeReconciled, outcome)
	suite.True(order.Shipments[0].Amount.Equals(domain.MustMoney("30", "HRK")), order.Shipments[0].Amount.String())
	suite.True(order.TotalPrice.Equals(domain.MustMoney("98.50", "HRK")), order.TotalPrice.String())
}

func (suite *OrderReconcilerTestSuite) TestReconcile_ConvertsShipmentWithoutRegistry() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)
	order := suite.newCart()
	order.Shipments[0].OriginalAmount = moneyPtr(domain.MustMoney("6", "USD"))

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeReconciled, outcome)
	suite.True(order.Shipments[0].Amount.Equals(domain.MustMoney("34.25", "HRK")))
	suite.True(order.Shipments[0].OriginalAmount.Equals(domain.MustMoney("41.10", "HRK")))
	suite.True(order.TotalPrice.Equals(domain.MustMoney("102.75", "HRK")))
}

func (suite *OrderReconcilerTestSuite) TestReconcile_AdjustmentHandling() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)
	order := suite.newCart()
	order.Adjustments = []domain.Adjustment{
		{Type: domain.AdjustmentTypeCustom, Label: "Gift wrap", Amount: domain.MustMoney("2", "USD"), Locked: true},
		{Type: domain.AdjustmentTypePromotion, Label: "Sale", Amount: domain.MustMoney("-1", "USD")},
		{Type: domain.AdjustmentTypeTax, Label: "VAT", Amount: domain.MustMoney("1.37", "HRK")},
	}
	order.Items[0].Adjustments = []domain.Adjustment{
		{Type: domain.AdjustmentTypeFee, Label: "Handling", Amount: domain.MustMoney("1", "USD"), Locked: true},
		{Type: domain.AdjustmentTypePromotion, Label: "Coupon", Amount: domain.MustMoney("-2", "USD")},
	}

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeReconciled, outcome)

	suite.Require().Len(order.Adjustments, 2)
	suite.Equal("Gift wrap", order.Adjustments[0].Label)
	suite.True(order.Adjustments[0].Amount.Equals(domain.MustMoney("13.70", "HRK")))
	suite.Equal("VAT", order.Adjustments[1].Label)

	suite.Require().Len(order.Items[0].Adjustments, 1)
	suite.True(order.Items[0].Adjustments[0].Amount.Equals(domain.MustMoney("6.85", "HRK")))

	// 68.50 + 6.85 + 34.25 + 13.70 + 1.37
	suite.True(order.TotalPrice.Equals(domain.MustMoney("124.67", "HRK")), order.TotalPrice.String())
}

func (suite *OrderReconcilerTestSuite) TestReconcile_DropsAllForeignUnlockedAdjustments() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)
	order := suite.newCart()
	order.Adjustments = []domain.Adjustment{
		{Type: domain.AdjustmentTypePromotion, Label: "Sale", Amount: domain.MustMoney("-1", "USD")},
	}

	_, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Empty(order.Adjustments)
	suite.True(order.TotalPrice.Equals(domain.MustMoney("102.75", "HRK")))
}

func (suite *OrderReconcilerTestSuite) TestReconcile_RepricesCatalogItems() {
	pricer := new(MockItemPricer)
	pricer.On("PriceOrderItem", mock.Anything, suite.req, mock.MatchedBy(func(item domain.OrderItem) bool {
		return item.OrderItemID == "item-1"
	}), "HRK").Return(domain.MustMoney("70", "HRK"), nil).Once()

	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy, services.WithItemPricer(pricer))
	order := suite.newCart()
	order.Items[0].PurchasedEntityID = "variation-1"

	_, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.True(order.Items[0].UnitPrice.Equals(domain.MustMoney("70", "HRK")))
	pricer.AssertExpectations(suite.T())
}

func (suite *OrderReconcilerTestSuite) TestReconcile_PolicyRefusalLeavesOrderUntouched() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)
	order := suite.newCart()
	order.State = domain.OrderStatePlaced

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeMatched, outcome)
	suite.Equal("USD", order.Items[0].UnitPrice.Currency())
	suite.Equal(domain.RefreshStateNone, order.RefreshState)
}

func (suite *OrderReconcilerTestSuite) TestReconcile_OrderWithoutTotalMatches() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)
	order := &domain.Order{OrderID: "order-1", State: domain.OrderStateDraft, IsCart: true}

	outcome, err := reconciler.Reconcile(context.Background(), suite.req, order)

	suite.Require().NoError(err)
	suite.Equal(portssvc.OutcomeMatched, outcome)
}

func (suite *OrderReconcilerTestSuite) TestReconcile_NilOrder() {
	reconciler := services.NewOrderReconciler(suite.resolver, suite.converter, suite.policy)

	_, err := reconciler.Reconcile(context.Background(), suite.req, nil)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *OrderReconcilerTestSuite) TestReconcile_MissingExchangeSource() {
	suite.settings.ExchangeRateProvider = ""
	converter := services.NewPriceConverter(suite.settings, newFakeRateProvider(), newFakeCurrencies("USD", "HRK"))
	reconciler := services.NewOrderReconciler(suite.resolver, converter, suite.policy)

	_, err := reconciler.Reconcile(context.Background(), suite.req, suite.newCart())

	suite.ErrorIs(err, apperrors.ErrMissingExchangeSource)
}

func TestOrderReconciler(t *testing.T) {
	suite.Run(t, new(OrderReconcilerTestSuite))
}
