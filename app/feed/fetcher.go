package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

var validURL = regexp.MustCompile(`^https?://`)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "RSS Desk/1.0"

	maxFeedSize = 10 << 20
)

// Fetcher retrieves and parses a feed document in a single attempt
type Fetcher struct {
	httpClient *http.Client
	parser     *Parser
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, parser *Parser, userAgent string, timeout time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		httpClient: httpClient,
		parser:     parser,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*RawFeed, error) {
	if url == "" || !validURL.MatchString(url) {
		return nil, fmt.Errorf("%w: feed URL %q must start with http:// or https://", ErrInvalidInput, url)
	}

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	feed, err := f.parser.Run(data)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return feed, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
