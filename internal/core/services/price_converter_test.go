package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PriceConverterTestSuite struct {
	suite.Suite
	settings   settingsStub
	rates      *fakeRateProvider
	currencies *fakeCurrencies
}

func (suite *PriceConverterTestSuite) SetupTest() {
	suite.settings = settingsStub{ExchangeRateProvider: domain.ProviderECB, DefaultCurrency: "USD"}
	suite.rates = newFakeRateProvider(
		rate("USD", "HRK", "6.85"),
		rate("USD", "JPY", "110.456"),
	)
	suite.currencies = newFakeCurrencies("USD", "HRK", "EUR", "JPY")
}

func (suite *PriceConverterTestSuite) converter() portssvc.PriceConverterSvc {
	return services.NewPriceConverter(suite.settings, suite.rates, suite.currencies)
}

func (suite *PriceConverterTestSuite) TestConvert_AppliesRateAndRounds() {
	converted, err := suite.converter().Convert(context.Background(), domain.MustMoney("10", "USD"), "HRK")

	suite.Require().NoError(err)
	suite.True(converted.Equals(domain.MustMoney("68.50", "HRK")), converted.String())
}

func (suite *PriceConverterTestSuite) TestConvert_RoundsToTargetMinorUnits() {
	converted, err := suite.converter().Convert(context.Background(), domain.MustMoney("10", "USD"), "JPY")

	suite.Require().NoError(err)
	suite.True(converted.Equals(domain.MustMoney("1105", "JPY")), converted.String())
}

func (suite *PriceConverterTestSuite) TestConvert_ReverseRateRoundTrip() {
	inverse := decimal.NewFromInt(1).Div(decimal.RequireFromString("6.85"))
	suite.rates.table.Set("HRK", "USD", domain.RateEntry{Value: inverse})

	converted, err := suite.converter().Convert(context.Background(), domain.MustMoney("685", "HRK"), "USD")

	suite.Require().NoError(err)
	suite.True(converted.Equals(domain.MustMoney("100.00", "USD")), converted.String())
}

func (suite *PriceConverterTestSuite) TestConvert_SameCurrencyIsUnchanged() {
	amount := domain.MustMoney("12.345", "USD")

	converted, err := suite.converter().Convert(context.Background(), amount, "USD")

	suite.Require().NoError(err)
	suite.True(converted.Equals(amount))
	suite.Zero(suite.rates.calls)
}

func (suite *PriceConverterTestSuite) TestConvert_MissingProviderFailsEvenForSameCurrency() {
	suite.settings.ExchangeRateProvider = ""

	_, err := suite.converter().Convert(context.Background(), domain.MustMoney("1", "USD"), "USD")
	suite.ErrorIs(err, apperrors.ErrMissingExchangeSource)

	_, err = suite.converter().Convert(context.Background(), domain.MustMoney("1", "USD"), "HRK")
	suite.ErrorIs(err, apperrors.ErrMissingExchangeSource)
}

func (suite *PriceConverterTestSuite) TestConvert_MissingPairConvertsOneToOne() {
	converted, err := suite.converter().Convert(context.Background(), domain.MustMoney("10.005", "EUR"), "HRK")

	suite.Require().NoError(err)
	suite.True(converted.Equals(domain.MustMoney("10.01", "HRK")), converted.String())
}

func (suite *PriceConverterTestSuite) TestConvert_StrictModeRejectsUnknownCurrency() {
	suite.settings.StrictCurrencies = true

	_, err := suite.converter().Convert(context.Background(), domain.MustMoney("10", "USD"), "GBP")
	suite.ErrorIs(err, apperrors.ErrUnknownCurrency)

	_, err = suite.converter().Convert(context.Background(), domain.MustMoney("10", "GBP"), "USD")
	suite.ErrorIs(err, apperrors.ErrUnknownCurrency)

	converted, err := suite.converter().Convert(context.Background(), domain.MustMoney("10", "USD"), "HRK")
	suite.Require().NoError(err)
	suite.Equal("HRK", converted.Currency())
}

func (suite *PriceConverterTestSuite) TestConvert_RateLoadError() {
	suite.rates.err = apperrors.ErrNotFound

	_, err := suite.converter().Convert(context.Background(), domain.MustMoney("10", "USD"), "HRK")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestPriceConverter(t *testing.T) {
	suite.Run(t, new(PriceConverterTestSuite))
}
