package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrFetch is returned for transport failures and non-2xx responses.
var ErrFetch = errors.New("fetch failed")

// Fetcher downloads raw HTML with a single GET request.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{},
	}
}

// NewFetcherWithClient is used by tests and callers that need their own transport.
func NewFetcherWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// StatusError carries the HTTP status of a rejected response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code: %d", e.StatusCode)
}

func (f *Fetcher) GetHTMLBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", "web-to-notion/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make HTTP request: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %w", ErrFetch, &StatusError{StatusCode: resp.StatusCode})
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrFetch, err)
	}
	return bodyBytes, nil
}
