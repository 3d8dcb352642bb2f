package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultUserAgent identifies the harvester to the origin.
const DefaultUserAgent = "newsharvest/1.0 (news listing harvester)"

// ClientConfig is the immutable request configuration shared by every fetch.
// It is passed by value so no fetch can change it for another.
type ClientConfig struct {
	UserAgent     string
	Headers       map[string]string
	Timeout       time.Duration
	RenderTimeout time.Duration
}

// DefaultClientConfig returns the default request configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		UserAgent:     DefaultUserAgent,
		Timeout:       10 * time.Second,
		RenderTimeout: 30 * time.Second,
	}
}

// Static fetches and parses documents with plain HTTP GET requests.
type Static interface {
	Fetch(ctx context.Context, rawURL string, query url.Values) (*goquery.Document, error)
}

// HTTPFetcher is the net/http implementation of Static.
type HTTPFetcher struct {
	config ClientConfig
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a client bounded by config.Timeout.
func NewHTTPFetcher(config ClientConfig) *HTTPFetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}
	config.Headers = headers

	return &HTTPFetcher{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Config returns the fetcher's request configuration.
func (f *HTTPFetcher) Config() ClientConfig {
	return f.config
}

// Fetch performs a GET of rawURL with query merged into its query string and
// parses the response. Every failure is returned as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, query url.Values) (*goquery.Document, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("failed to parse URL: %w", err)}
	}
	if len(query) > 0 {
		merged := target.Query()
		for key, values := range query {
			merged[key] = values
		}
		target.RawQuery = merged.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.config.UserAgent)
	for key, value := range f.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: target.String(), StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: target.String(), Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}
	doc.Url = resp.Request.URL

	return doc, nil
}
