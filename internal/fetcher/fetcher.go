// Package fetcher provides the shared HTTP session used to download upstream data.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data over one
// shared connection context.
type Fetcher interface {
	// Download fetches the URL and returns the response body decoded to UTF-8.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// Close releases the session's pooled connections.
	Close()
}
