// Package exchangerate fetches raw exchange rates from remote feeds.
package exchangerate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 10 * time.Second

// Option configures a feed client.
type Option func(*httpFeed)

// WithBaseURL points the client at another endpoint, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(f *httpFeed) {
		f.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *httpFeed) {
		f.client = client
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(log *slog.Logger) Option {
	return func(f *httpFeed) {
		f.log = log
	}
}

type httpFeed struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func newHTTPFeed(name, baseURL string, opts ...Option) httpFeed {
	f := httpFeed{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	f.log = f.log.With(slog.String("client", name))
	return f
}

// get performs a GET with query parameters and returns the body of a 200 response.
func (f httpFeed) get(ctx context.Context, query url.Values) ([]byte, error) {
	endpoint := f.baseURL
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	f.log.Debug("Fetching rates", slog.String("url", f.baseURL))
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
