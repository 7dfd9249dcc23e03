package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/dto"
	"github.com/shopspring/decimal"
)

// RateCacheInvalidator drops cached rate tables after they were rewritten.
type RateCacheInvalidator interface {
	Invalidate(providerID string)
}

type exchangeRateService struct {
	BaseService
	settings        portssvc.SettingsProvider
	rateRepo        portsrepo.ExchangeRateRepositoryFacade
	currencyService portssvc.CurrencyReaderSvc
	cache           RateCacheInvalidator
}

// NewExchangeRateService creates a new exchange rate service working on the active provider.
func NewExchangeRateService(settings portssvc.SettingsProvider, rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyService portssvc.CurrencyReaderSvc, cache RateCacheInvalidator) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		settings:        settings,
		rateRepo:        rateRepo,
		currencyService: currencyService,
		cache:           cache,
	}
}

// CreateExchangeRate stores an admin-entered rate. Manual rates survive later imports.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	providerID := s.settings.ResolverSettings().ExchangeRateProvider
	if providerID == "" {
		return nil, apperrors.ErrMissingExchangeSource
	}

	// Input validation (basic format) is handled by DTO binding tags.
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	if err := s.requireCurrency(ctx, "from", req.FromCurrencyCode); err != nil {
		return nil, err
	}
	if err := s.requireCurrency(ctx, "to", req.ToCurrencyCode); err != nil {
		return nil, err
	}

	rate := domain.ExchangeRate{
		ProviderID:       providerID,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		Manual:           true,
		UpdatedAt:        time.Now(),
	}

	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", rate.FromCurrencyCode),
			slog.String("to", rate.ToCurrencyCode))
		return nil, fmt.Errorf("failed to create exchange rate in service: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(providerID)
	}

	s.LogInfo(ctx, "Manual exchange rate saved",
		slog.String("provider", providerID),
		slog.String("from", rate.FromCurrencyCode),
		slog.String("to", rate.ToCurrencyCode),
		slog.String("user_id", creatorUserID))
	return &rate, nil
}

func (s *exchangeRateService) requireCurrency(ctx context.Context, side, code string) error {
	_, err := s.currencyService.GetCurrencyByCode(ctx, code)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: '%s' currency code '%s' not found", apperrors.ErrValidation, side, code)
	}
	return fmt.Errorf("failed to validate '%s' currency '%s': %w", side, code, err)
}

// GetExchangeRate retrieves the stored rate of the active provider for a currency pair.
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	providerID := s.settings.ResolverSettings().ExchangeRateProvider
	if providerID == "" {
		return nil, apperrors.ErrMissingExchangeSource
	}

	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindExchangeRate(ctx, providerID, fromCode, toCode)
	if err != nil {
		// Repository layer handles ErrNotFound mapping
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return rate, nil
}
