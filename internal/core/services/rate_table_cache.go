package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/currency_resolver/internal/apperrors"
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_resolver/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

const defaultRateCacheTTL = 10 * time.Minute

type rateCacheEntry struct {
	table     *domain.ExchangeRateTable
	expiresAt time.Time
}

// CachedRateProvider loads provider tables from storage and keeps them for a TTL.
// Tables handed out are never mutated; imports replace them and call Invalidate.
type CachedRateProvider struct {
	BaseService
	repo portsrepo.ExchangeRateReader
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]rateCacheEntry
}

// CachedRateProviderOption configures a CachedRateProvider.
type CachedRateProviderOption func(*CachedRateProvider)

// WithRateCacheTTL sets how long a loaded table is served from memory.
func WithRateCacheTTL(ttl time.Duration) CachedRateProviderOption {
	return func(p *CachedRateProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithRateCacheClock overrides the clock, for tests.
func WithRateCacheClock(now func() time.Time) CachedRateProviderOption {
	return func(p *CachedRateProvider) {
		p.now = now
	}
}

// NewCachedRateProvider creates a rate provider backed by repo.
func NewCachedRateProvider(repo portsrepo.ExchangeRateReader, opts ...CachedRateProviderOption) *CachedRateProvider {
	p := &CachedRateProvider{
		repo:    repo,
		ttl:     defaultRateCacheTTL,
		now:     time.Now,
		entries: make(map[string]rateCacheEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ portssvc.ExchangeRateProvider = (*CachedRateProvider)(nil)

// LoadRates returns the provider's table, failing with ErrMissingExchangeSource when no
// provider is configured.
func (p *CachedRateProvider) LoadRates(ctx context.Context, providerID string) (*domain.ExchangeRateTable, error) {
	if providerID == "" {
		return nil, apperrors.ErrMissingExchangeSource
	}

	p.mu.RLock()
	entry, ok := p.entries[providerID]
	p.mu.RUnlock()
	if ok && p.now().Before(entry.expiresAt) {
		return entry.table, nil
	}

	table, err := p.repo.LoadRates(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates for provider %s: %w", providerID, err)
	}
	if table == nil {
		table = domain.NewExchangeRateTable()
	}

	p.mu.Lock()
	p.entries[providerID] = rateCacheEntry{table: table, expiresAt: p.now().Add(p.ttl)}
	p.mu.Unlock()

	p.LogDebug(ctx, "Exchange rate table loaded", slog.String("provider", providerID))
	return table, nil
}

// Invalidate drops the cached table of providerID.
func (p *CachedRateProvider) Invalidate(providerID string) {
	p.mu.Lock()
	delete(p.entries, providerID)
	p.mu.Unlock()
}
