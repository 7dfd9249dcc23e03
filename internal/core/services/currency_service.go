package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/SscSPs/currency_resolver/internal/dto"
	"golang.org/x/text/currency"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	// Basic validation already handled by DTO binding (required, len=3, uppercase)
	now := time.Now()

	precision := StandardPrecision(req.CurrencyCode)
	if req.Precision != nil {
		precision = *req.Precision
	}

	curr := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		Precision:    precision,
		Enabled:      req.Enabled,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, curr); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	s.LogInfo(ctx, "Currency saved", slog.String("currency_code", curr.CurrencyCode), slog.Bool("enabled", curr.Enabled))
	return &curr, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	curr, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	if curr == nil {
		return nil, apperrors.ErrNotFound
	}
	return curr, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *currencyService) EnabledCurrencies(ctx context.Context) (domain.CurrencySet, error) {
	currencies, err := s.currencyRepo.ListEnabledCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled currencies: %w", err)
	}
	return domain.NewCurrencySet(currencies), nil
}

// Precision prefers the stored minor-unit count, then the ISO 4217 standard scale.
func (s *currencyService) Precision(ctx context.Context, currencyCode string) int32 {
	curr, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err == nil && curr != nil {
		return curr.Precision
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogWarn(ctx, "Falling back to standard currency precision",
			slog.String("currency_code", currencyCode),
			slog.String("error", err.Error()))
	}
	return StandardPrecision(currencyCode)
}

// StandardPrecision returns the ISO 4217 minor-unit count of code, or
// domain.DefaultPrecision for codes x/text does not know.
func StandardPrecision(code string) int32 {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return domain.DefaultPrecision
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}
