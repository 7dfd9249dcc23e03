package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ExchangeImportServiceTestSuite struct {
	suite.Suite
	settings   settingsStub
	repo       *MockExchangeRateRepository
	currencies *fakeCurrencies
	cache      *recordingInvalidator
	ecb        *MockRateSource
	fixer      *MockRateSource
	fixerPaid  *MockRateSource
}

func (suite *ExchangeImportServiceTestSuite) SetupTest() {
	suite.settings = settingsStub{ExchangeRateProvider: domain.ProviderECB, DefaultCurrency: "HRK"}
	suite.repo = new(MockExchangeRateRepository)
	suite.currencies = newFakeCurrencies("EUR", "USD", "HRK")
	suite.cache = &recordingInvalidator{}
	suite.ecb = &MockRateSource{id: domain.ProviderECB}
	suite.fixer = &MockRateSource{id: domain.ProviderFixer}
	suite.fixerPaid = &MockRateSource{id: domain.ProviderFixerPaid}
}

func (suite *ExchangeImportServiceTestSuite) service() portssvc.ExchangeImportSvc {
	return services.NewExchangeImportService(suite.settings, suite.repo, suite.currencies, suite.cache,
		suite.ecb, suite.fixer, suite.fixerPaid)
}

func eurQuotes() map[string]decimal.Decimal {
	return decimals(map[string]string{"USD": "2", "HRK": "8"})
}

func (suite *ExchangeImportServiceTestSuite) TestImport_ECBCrossSyncsEveryEnabledBase() {
	ctx := context.Background()
	suite.ecb.On("FetchRates", ctx, "").Return("EUR", eurQuotes(), nil).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderECB).Return(domain.NewExchangeRateTable(), nil).Once()
	suite.repo.On("ReplaceRates", ctx, domain.ProviderECB, mock.MatchedBy(func(t *domain.ExchangeRateTable) bool {
		return len(t.Bases()) == 3 &&
			t.Rate("USD", "EUR").Equal(decimal.RequireFromString("0.5")) &&
			t.Rate("HRK", "USD").Equal(decimal.RequireFromString("0.25"))
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	rows, err := suite.service().Import(ctx, domain.ProviderECB)

	suite.Require().NoError(err)
	// EUR row: EUR, USD, HRK. USD row: EUR, HRK. HRK row: EUR, USD.
	suite.Equal(7, rows)
	suite.Equal([]string{domain.ProviderECB}, suite.cache.invalidated)
	suite.repo.AssertExpectations(suite.T())
	suite.ecb.AssertExpectations(suite.T())
}

func (suite *ExchangeImportServiceTestSuite) TestImport_FixerWithoutCrossSyncBuildsDefaultRow() {
	ctx := context.Background()
	existing := domain.NewExchangeRateTable()
	existing.Set("HRK", "USD", domain.RateEntry{Value: decimal.RequireFromString("0.3"), Manual: true})

	suite.fixer.On("FetchRates", ctx, "").Return("EUR", eurQuotes(), nil).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderFixer).Return(existing, nil).Once()
	suite.repo.On("ReplaceRates", ctx, domain.ProviderFixer, mock.MatchedBy(func(t *domain.ExchangeRateTable) bool {
		usd, _ := t.Lookup("HRK", "USD")
		return len(t.Bases()) == 1 &&
			t.Rate("HRK", "EUR").Equal(decimal.RequireFromString("0.125")) &&
			usd.Manual && usd.Value.Equal(decimal.RequireFromString("0.3"))
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	rows, err := suite.service().Import(ctx, domain.ProviderFixer)

	suite.Require().NoError(err)
	suite.Equal(2, rows)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *ExchangeImportServiceTestSuite) TestImport_FixerWithCrossSync() {
	ctx := context.Background()
	suite.settings.UseCrossSync = true

	suite.fixer.On("FetchRates", ctx, "").Return("EUR", eurQuotes(), nil).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderFixer).Return(domain.NewExchangeRateTable(), nil).Once()
	suite.repo.On("ReplaceRates", ctx, domain.ProviderFixer, mock.Anything, mock.Anything).Return(nil).Once()

	rows, err := suite.service().Import(ctx, domain.ProviderFixer)

	suite.Require().NoError(err)
	suite.Equal(7, rows)
}

func (suite *ExchangeImportServiceTestSuite) TestImport_FixerPaidSkipsFailingBases() {
	ctx := context.Background()
	suite.currencies = newFakeCurrencies("USD", "EUR")

	suite.fixerPaid.On("FetchRates", ctx, "USD").Return("USD", decimals(map[string]string{"EUR": "0.9"}), nil).Once()
	suite.fixerPaid.On("FetchRates", ctx, "EUR").Return("", nil, assert.AnError).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderFixerPaid).Return(domain.NewExchangeRateTable(), nil).Once()
	suite.repo.On("ReplaceRates", ctx, domain.ProviderFixerPaid, mock.MatchedBy(func(t *domain.ExchangeRateTable) bool {
		return len(t.Bases()) == 1 && t.Rate("USD", "EUR").Equal(decimal.RequireFromString("0.9"))
	}), mock.Anything).Return(nil).Once()

	rows, err := suite.service().Import(ctx, domain.ProviderFixerPaid)

	suite.Require().NoError(err)
	suite.Equal(1, rows)
	suite.fixerPaid.AssertExpectations(suite.T())
}

func (suite *ExchangeImportServiceTestSuite) TestImport_EmptyResultKeepsStoredTable() {
	ctx := context.Background()
	suite.ecb.On("FetchRates", ctx, "").Return("EUR", map[string]decimal.Decimal{}, nil).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderECB).Return(domain.NewExchangeRateTable(), nil).Once()

	rows, err := suite.service().Import(ctx, domain.ProviderECB)

	suite.Require().NoError(err)
	suite.Zero(rows)
	suite.repo.AssertNotCalled(suite.T(), "ReplaceRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.cache.invalidated)
}

func (suite *ExchangeImportServiceTestSuite) TestImport_SourceError() {
	ctx := context.Background()
	suite.ecb.On("FetchRates", ctx, "").Return("", nil, assert.AnError).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderECB).Return(domain.NewExchangeRateTable(), nil).Once()

	_, err := suite.service().Import(ctx, domain.ProviderECB)

	suite.ErrorIs(err, assert.AnError)
	suite.repo.AssertNotCalled(suite.T(), "ReplaceRates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeImportServiceTestSuite) TestImport_ManualIsNeverFetched() {
	rows, err := suite.service().Import(context.Background(), domain.ProviderManual)

	suite.Require().NoError(err)
	suite.Zero(rows)
	suite.repo.AssertNotCalled(suite.T(), "LoadRates", mock.Anything, mock.Anything)
}

func (suite *ExchangeImportServiceTestSuite) TestImport_MissingAndUnknownSources() {
	_, err := suite.service().Import(context.Background(), "")
	suite.ErrorIs(err, apperrors.ErrMissingExchangeSource)

	_, err = suite.service().Import(context.Background(), "exchange_rate_nope")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeImportServiceTestSuite) TestImportActive_UsesConfiguredProvider() {
	suite.settings.ExchangeRateProvider = ""
	_, err := suite.service().ImportActive(context.Background())
	suite.ErrorIs(err, apperrors.ErrMissingExchangeSource)

	suite.settings.ExchangeRateProvider = domain.ProviderManual
	rows, err := suite.service().ImportActive(context.Background())
	suite.Require().NoError(err)
	suite.Zero(rows)
}

func (suite *ExchangeImportServiceTestSuite) TestImport_StoreFailure() {
	ctx := context.Background()
	suite.ecb.On("FetchRates", ctx, "").Return("EUR", eurQuotes(), nil).Once()
	suite.repo.On("LoadRates", ctx, domain.ProviderECB).Return(domain.NewExchangeRateTable(), nil).Once()
	suite.repo.On("ReplaceRates", ctx, domain.ProviderECB, mock.Anything, mock.AnythingOfType("time.Time")).Return(assert.AnError).Once()

	_, err := suite.service().Import(ctx, domain.ProviderECB)

	suite.ErrorIs(err, assert.AnError)
	suite.Empty(suite.cache.invalidated)
}

func TestExchangeImportService(t *testing.T) {
	suite.Run(t, new(ExchangeImportServiceTestSuite))
}
