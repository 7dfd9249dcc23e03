package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

type exchangeImportService struct {
	BaseService
	settings   portssvc.SettingsProvider
	repo       portsrepo.ExchangeRateRepositoryFacade
	currencies portssvc.CurrencyReaderSvc
	cache      RateCacheInvalidator
	sources    map[string]portssvc.RateSource
	now        func() time.Time
}

// NewExchangeImportService creates the rate importer. Sources are keyed by their SourceID.
func NewExchangeImportService(settings portssvc.SettingsProvider, repo portsrepo.ExchangeRateRepositoryFacade, currencies portssvc.CurrencyReaderSvc, cache RateCacheInvalidator, sources ...portssvc.RateSource) portssvc.ExchangeImportSvc {
	byID := make(map[string]portssvc.RateSource, len(sources))
	for _, src := range sources {
		byID[src.SourceID()] = src
	}
	return &exchangeImportService{
		settings:   settings,
		repo:       repo,
		currencies: currencies,
		cache:      cache,
		sources:    byID,
		now:        time.Now,
	}
}

func (s *exchangeImportService) ImportActive(ctx context.Context) (int, error) {
	return s.Import(ctx, s.settings.ResolverSettings().ExchangeRateProvider)
}

// Import fetches sourceID and replaces its stored table. Manual tables are never fetched.
// An empty fetch result leaves the stored table untouched.
func (s *exchangeImportService) Import(ctx context.Context, sourceID string) (int, error) {
	switch sourceID {
	case "":
		return 0, apperrors.ErrMissingExchangeSource
	case domain.ProviderManual:
		s.LogInfo(ctx, "Manual exchange rates are not imported")
		return 0, nil
	}

	source, ok := s.sources[sourceID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown exchange rate source %q", apperrors.ErrValidation, sourceID)
	}

	enabled, err := s.currencies.EnabledCurrencies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list enabled currencies: %w", err)
	}
	existing, err := s.repo.LoadRates(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to load current rates of %s: %w", sourceID, err)
	}

	var table *domain.ExchangeRateTable
	switch sourceID {
	case domain.ProviderFixer:
		table, err = s.importSingleBase(ctx, source, enabled, existing)
	case domain.ProviderFixerPaid:
		table, err = s.importEachBase(ctx, source, enabled, existing)
	default:
		table, err = s.importCrossSync(ctx, source, enabled, existing)
	}
	if err != nil {
		s.LogError(ctx, err, "Exchange rate import failed", slog.String("source", sourceID))
		return 0, err
	}
	if table.IsEmpty() {
		s.LogWarn(ctx, "Exchange rate source returned no rates, keeping stored table", slog.String("source", sourceID))
		return 0, nil
	}

	importedAt := s.now()
	if err := s.repo.ReplaceRates(ctx, sourceID, table, importedAt); err != nil {
		return 0, fmt.Errorf("failed to store rates of %s: %w", sourceID, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(sourceID)
	}

	rows := len(table.Rows(sourceID, importedAt))
	s.LogInfo(ctx, "Exchange rates imported", slog.String("source", sourceID), slog.Int("rows", rows))
	return rows, nil
}

// importCrossSync serves feeds quoting a single fixed base, such as the ECB.
func (s *exchangeImportService) importCrossSync(ctx context.Context, source portssvc.RateSource, enabled domain.CurrencySet, existing *domain.ExchangeRateTable) (*domain.ExchangeRateTable, error) {
	base, data, err := source.FetchRates(ctx, "")
	if err != nil {
		return nil, err
	}
	return CrossSyncCalculate(base, data, enabled, existing), nil
}

// importSingleBase serves feeds whose base is tied to the account. Without cross-sync
// only the default currency row is derived.
func (s *exchangeImportService) importSingleBase(ctx context.Context, source portssvc.RateSource, enabled domain.CurrencySet, existing *domain.ExchangeRateTable) (*domain.ExchangeRateTable, error) {
	settings := s.settings.ResolverSettings()
	if settings.UseCrossSync {
		return s.importCrossSync(ctx, source, enabled, existing)
	}

	base, data, err := source.FetchRates(ctx, "")
	if err != nil {
		return nil, err
	}
	table := domain.NewExchangeRateTable()
	if len(data) == 0 {
		return table, nil
	}
	row := ReverseCalculate(settings.DefaultCurrency, base, data, enabled)
	table.SetRow(settings.DefaultCurrency, MapExchangeRates(row, settings.DefaultCurrency, existing))
	return table, nil
}

// importEachBase fetches one row per enabled currency unless cross-sync is on. A failing
// base is skipped.
func (s *exchangeImportService) importEachBase(ctx context.Context, source portssvc.RateSource, enabled domain.CurrencySet, existing *domain.ExchangeRateTable) (*domain.ExchangeRateTable, error) {
	if s.settings.ResolverSettings().UseCrossSync {
		return s.importCrossSync(ctx, source, enabled, existing)
	}

	table := domain.NewExchangeRateTable()
	for _, code := range enabled.Codes() {
		_, data, err := source.FetchRates(ctx, code)
		if err != nil {
			s.LogWarn(ctx, "Skipping exchange rate base",
				slog.String("source", source.SourceID()),
				slog.String("base", code),
				slog.String("error", err.Error()))
			continue
		}
		if len(data) > 0 {
			table.SetRow(code, MapExchangeRates(data, code, existing))
		}
	}
	return table, nil
}
