package syncer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// FetchResult is one HTTP response from the dataset endpoint.
type FetchResult struct {
	StatusCode int
	Body       []byte
}

// Fetcher retrieves the raw airport dataset. An error means no HTTP
// response was received at all; any response, 2xx or not, comes back
// as a FetchResult.
type Fetcher interface {
	Fetch(ctx context.Context) (FetchResult, error)
}

// HTTPFetcher issues a single GET against the configured dataset URL
// with the state and format query parameters.
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	state   string
	format  string
}

// NewHTTPFetcher builds a fetcher for the given endpoint. The timeout
// bounds the whole request, connection included.
func NewHTTPFetcher(baseURL, state, format string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		state:   state,
		format:  format,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (FetchResult, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return FetchResult{}, fmt.Errorf("parse source url: %w", err)
	}
	q := u.Query()
	q.Set("state", f.state)
	q.Set("format", f.format)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("get airports: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, fmt.Errorf("read response body: %w", err)
	}

	return FetchResult{StatusCode: resp.StatusCode, Body: body}, nil
}
