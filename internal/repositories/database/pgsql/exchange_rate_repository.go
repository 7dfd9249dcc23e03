package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	"github.com/SscSPs/currency_resolver/internal/models"
	"github.com/SscSPs/currency_resolver/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository stores one rate table per provider.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryWithTx {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryWithTx = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row pgx.CollectableRow) (models.ExchangeRate, error) {
	var m models.ExchangeRate
	err := row.Scan(&m.ProviderID, &m.BaseCurrency, &m.TargetCurrency, &m.Rate, &m.Manual, &m.UpdatedAt)
	return m, err
}

// LoadRates returns the provider's full table. An unknown provider yields an empty table.
func (r *PgxExchangeRateRepository) LoadRates(ctx context.Context, providerID string) (*domain.ExchangeRateTable, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT provider_id, base_currency, target_currency, rate, manual, updated_at
		FROM exchange_rates
		WHERE provider_id = $1`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates of %s: %w", providerID, err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, scanExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rates of %s: %w", providerID, err)
	}
	return domain.NewExchangeRateTableFromRows(mapping.ToDomainExchangeRateSlice(modelRates)), nil
}

// FindExchangeRate retrieves the stored rate for a pair.
func (r *PgxExchangeRateRepository) FindExchangeRate(ctx context.Context, providerID, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT provider_id, base_currency, target_currency, rate, manual, updated_at
		FROM exchange_rates
		WHERE provider_id = $1 AND base_currency = $2 AND target_currency = $3`,
		providerID, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	defer rows.Close()

	modelRate, err := pgx.CollectExactlyOneRow(rows, scanExchangeRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan exchange rate %s->%s: %w", fromCurrencyCode, toCurrencyCode, err)
	}
	rate := mapping.ToDomainExchangeRate(modelRate)
	return &rate, nil
}

// LastImport returns the newest updated_at of the provider, zero time when it has no rows.
func (r *PgxExchangeRateRepository) LastImport(ctx context.Context, providerID string) (time.Time, error) {
	var last *time.Time
	err := r.Pool.QueryRow(ctx,
		`SELECT MAX(updated_at) FROM exchange_rates WHERE provider_id = $1`, providerID,
	).Scan(&last)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last import of %s: %w", providerID, err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// SaveExchangeRate inserts or updates a single rate.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)
	modelRate.BaseCurrency = strings.ToUpper(modelRate.BaseCurrency)
	modelRate.TargetCurrency = strings.ToUpper(modelRate.TargetCurrency)

	if modelRate.BaseCurrency == modelRate.TargetCurrency {
		return apperrors.NewValidationError("from and to currencies cannot be the same")
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (provider_id, base_currency, target_currency, rate, manual, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider_id, base_currency, target_currency) DO UPDATE SET
			rate = EXCLUDED.rate,
			manual = EXCLUDED.manual,
			updated_at = EXCLUDED.updated_at`,
		modelRate.ProviderID, modelRate.BaseCurrency, modelRate.TargetCurrency,
		modelRate.Rate, modelRate.Manual, modelRate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate %s->%s: %w", modelRate.BaseCurrency, modelRate.TargetCurrency, err)
	}
	return nil
}

// ReplaceRates swaps the provider's rows for the table in a single transaction.
func (r *PgxExchangeRateRepository) ReplaceRates(ctx context.Context, providerID string, table *domain.ExchangeRateTable, importedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM exchange_rates WHERE provider_id = $1`, providerID); err != nil {
		return fmt.Errorf("failed to clear exchange rates of %s: %w", providerID, err)
	}

	batch := &pgx.Batch{}
	for _, rate := range table.Rows(providerID, importedAt) {
		m := mapping.ToModelExchangeRate(rate)
		batch.Queue(`
			INSERT INTO exchange_rates (provider_id, base_currency, target_currency, rate, manual, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ProviderID, m.BaseCurrency, m.TargetCurrency, m.Rate, m.Manual, m.UpdatedAt)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert exchange rates of %s: %w", providerID, err)
		}
	}

	return r.Commit(ctx, tx)
}
