package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// ErrSourceNotReachable is returned when a remote file cannot be downloaded.
var ErrSourceNotReachable = apperrors.New("remote source is not reachable")

// HTTPFetcher downloads remote files, retrying transient failures.
type HTTPFetcher struct {
	client *retryablehttp.Client
}

// NewHTTPFetcher creates a fetcher. The timeout bounds a single attempt including the body download.
func NewHTTPFetcher(timeout time.Duration, retryMax int, logger *slog.Logger) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 10 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}

	return &HTTPFetcher{client: client}
}

// Fetch starts downloading url. The caller must close the returned body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotReachable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotReachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSourceNotReachable, resp.StatusCode)
	}
	return resp.Body, nil
}
