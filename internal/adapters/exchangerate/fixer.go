package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// FixerLatestURL is the fixer.io latest rates endpoint.
const FixerLatestURL = "http://data.fixer.io/api/latest"

// ErrMissingAPIKey is returned when a fixer client has no access key.
var ErrMissingAPIKey = errors.New("fixer access key is not configured")

// FixerClient reads fixer.io. On free plans the base is tied to the account and the
// requested base is ignored by the API.
type FixerClient struct {
	httpFeed
	sourceID string
	apiKey   string
}

// NewFixerClient creates a fixer client registered under sourceID, one of
// domain.ProviderFixer or domain.ProviderFixerPaid.
func NewFixerClient(sourceID, apiKey string, opts ...Option) *FixerClient {
	return &FixerClient{
		httpFeed: newHTTPFeed(sourceID, FixerLatestURL, opts...),
		sourceID: sourceID,
		apiKey:   apiKey,
	}
}

var _ portssvc.RateSource = (*FixerClient)(nil)

func (c *FixerClient) SourceID() string { return c.sourceID }

type fixerResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// FetchRates returns the latest rates and the base the API actually used.
func (c *FixerClient) FetchRates(ctx context.Context, base string) (string, map[string]decimal.Decimal, error) {
	if c.apiKey == "" {
		return "", nil, ErrMissingAPIKey
	}

	query := url.Values{"access_key": {c.apiKey}}
	if base != "" {
		query.Set("base", base)
	}
	body, err := c.get(ctx, query)
	if err != nil {
		return "", nil, err
	}

	var result fixerResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", nil, fmt.Errorf("failed to parse fixer response: %w", err)
	}
	if !result.Success {
		info := "unknown error"
		if result.Error != nil {
			info = result.Error.Info
		}
		return "", nil, fmt.Errorf("fixer request failed: %s", info)
	}

	c.log.Info("Fetched fixer rates", slog.String("base", result.Base), slog.Int("count", len(result.Rates)))
	return result.Base, result.Rates, nil
}
