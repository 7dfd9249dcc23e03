package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Settings ---

type settingsStub domain.ResolverSettings

func (s settingsStub) ResolverSettings() domain.ResolverSettings {
	return domain.ResolverSettings(s)
}

// --- Currencies ---

// fakeCurrencies serves a fixed currency list. Unknown precisions default to 2.
type fakeCurrencies struct {
	currencies []domain.Currency
	precision  map[string]int32
	enabledErr error
}

func newFakeCurrencies(codes ...string) *fakeCurrencies {
	f := &fakeCurrencies{precision: map[string]int32{"JPY": 0}}
	for _, code := range codes {
		f.currencies = append(f.currencies, domain.Currency{CurrencyCode: code, Enabled: true, Precision: f.precisionOf(code)})
	}
	return f
}

func (f *fakeCurrencies) withDisabled(code string) *fakeCurrencies {
	f.currencies = append(f.currencies, domain.Currency{CurrencyCode: code, Enabled: false, Precision: f.precisionOf(code)})
	return f
}

func (f *fakeCurrencies) precisionOf(code string) int32 {
	if p, ok := f.precision[code]; ok {
		return p
	}
	return domain.DefaultPrecision
}

func (f *fakeCurrencies) GetCurrencyByCode(_ context.Context, code string) (*domain.Currency, error) {
	for _, c := range f.currencies {
		if c.CurrencyCode == code {
			curr := c
			return &curr, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCurrencies) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	return f.currencies, nil
}

func (f *fakeCurrencies) EnabledCurrencies(_ context.Context) (domain.CurrencySet, error) {
	if f.enabledErr != nil {
		return nil, f.enabledErr
	}
	return domain.NewCurrencySet(f.currencies), nil
}

func (f *fakeCurrencies) Precision(_ context.Context, code string) int32 {
	return f.precisionOf(code)
}

// --- Rates ---

type fakeRateProvider struct {
	table *domain.ExchangeRateTable
	err   error
	calls int
}

func newFakeRateProvider(rates ...domain.ExchangeRate) *fakeRateProvider {
	return &fakeRateProvider{table: domain.NewExchangeRateTableFromRows(rates)}
}

func (f *fakeRateProvider) LoadRates(_ context.Context, providerID string) (*domain.ExchangeRateTable, error) {
	f.calls++
	if providerID == "" {
		return nil, apperrors.ErrMissingExchangeSource
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

func rate(from, to, value string) domain.ExchangeRate {
	return domain.ExchangeRate{FromCurrencyCode: from, ToCurrencyCode: to, Rate: decimal.RequireFromString(value)}
}

type recordingInvalidator struct {
	mu          sync.Mutex
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(providerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, providerID)
}

// --- Resolver ---

type fixedCurrency string

func (f fixedCurrency) GetCurrency(context.Context, *domain.RequestContext) string { return string(f) }
func (f fixedCurrency) Release(*domain.RequestContext)                             {}

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListEnabledCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) LoadRates(ctx context.Context, providerID string) (*domain.ExchangeRateTable, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateTable), args.Error(1)
}

func (m *MockExchangeRateRepository) FindExchangeRate(ctx context.Context, providerID, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, providerID, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) LastImport(ctx context.Context, providerID string) (time.Time, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) ReplaceRates(ctx context.Context, providerID string, table *domain.ExchangeRateTable, importedAt time.Time) error {
	args := m.Called(ctx, providerID, table, importedAt)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
	id string
}

func (m *MockRateSource) SourceID() string { return m.id }

func (m *MockRateSource) FetchRates(ctx context.Context, base string) (string, map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(map[string]decimal.Decimal), args.Error(2)
}

// --- Mock EntityStorage ---
type MockEntityStorage struct {
	mock.Mock
}

func (m *MockEntityStorage) Load(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockEntityStorage) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// --- Mock OrderReconciler ---
type MockOrderReconciler struct {
	mock.Mock
}

func (m *MockOrderReconciler) Reconcile(ctx context.Context, req *domain.RequestContext, order *domain.Order) (portssvc.ReconcileOutcome, error) {
	args := m.Called(ctx, req, order)
	return args.Get(0).(portssvc.ReconcileOutcome), args.Error(1)
}

// --- Mock OrderProcessor ---
type MockOrderProcessor struct {
	mock.Mock
	id string
}

func (m *MockOrderProcessor) ID() string { return m.id }

func (m *MockOrderProcessor) Apply(ctx context.Context, req *domain.RequestContext, order *domain.Order) error {
	args := m.Called(ctx, req, order)
	return args.Error(0)
}

// --- Mock PurchasedItemPricer ---
type MockItemPricer struct {
	mock.Mock
}

func (m *MockItemPricer) PriceOrderItem(ctx context.Context, req *domain.RequestContext, item domain.OrderItem, target string) (domain.Money, error) {
	args := m.Called(ctx, req, item, target)
	return args.Get(0).(domain.Money), args.Error(1)
}

// --- Catalog ---

type fakePurchasable struct {
	id     string
	price  domain.Money
	fields map[string]domain.Money
}

func (p fakePurchasable) PurchasableID() string { return p.id }
func (p fakePurchasable) Price() domain.Money    { return p.price }

func (p fakePurchasable) FieldPrice(currency string) (domain.Money, bool) {
	m, ok := p.fields[currency]
	return m, ok
}

type fakeCatalog map[string]portssvc.Purchasable

func (c fakeCatalog) FindPurchasable(_ context.Context, id string) (portssvc.Purchasable, error) {
	p, ok := c[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func moneyPtr(m domain.Money) *domain.Money { return &m }
