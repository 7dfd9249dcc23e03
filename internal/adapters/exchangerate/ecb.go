package exchangerate

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ECBDailyURL is the European Central Bank daily reference rate feed.
const ECBDailyURL = "http://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

// ECBClient reads the ECB daily feed. Rates are always quoted against EUR.
type ECBClient struct {
	httpFeed
}

// NewECBClient creates a client for the ECB feed.
func NewECBClient(opts ...Option) *ECBClient {
	return &ECBClient{httpFeed: newHTTPFeed("ecb", ECBDailyURL, opts...)}
}

var _ portssvc.RateSource = (*ECBClient)(nil)

func (c *ECBClient) SourceID() string { return domain.ProviderECB }

type ecbEnvelope struct {
	Cube struct {
		Cube struct {
			Time  string `xml:"time,attr"`
			Rates []struct {
				Currency string `xml:"currency,attr"`
				Rate     string `xml:"rate,attr"`
			} `xml:"Cube"`
		} `xml:"Cube"`
	} `xml:"Cube"`
}

// FetchRates ignores base; the feed only publishes EUR rates.
func (c *ECBClient) FetchRates(ctx context.Context, _ string) (string, map[string]decimal.Decimal, error) {
	body, err := c.get(ctx, nil)
	if err != nil {
		return "", nil, err
	}

	var envelope ecbEnvelope
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return "", nil, fmt.Errorf("failed to parse ECB feed: %w", err)
	}

	rates := make(map[string]decimal.Decimal, len(envelope.Cube.Cube.Rates))
	for _, r := range envelope.Cube.Cube.Rates {
		value, err := decimal.NewFromString(r.Rate)
		if err != nil {
			c.log.Warn("Skipping unparsable ECB rate", slog.String("currency", r.Currency), slog.String("rate", r.Rate))
			continue
		}
		rates[r.Currency] = value
	}

	c.log.Info("Fetched ECB rates", slog.String("date", envelope.Cube.Cube.Time), slog.Int("count", len(rates)))
	return domain.ECBBaseCurrency, rates, nil
}
