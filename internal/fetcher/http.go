package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
}

// HTTPFetcher implements Fetcher using net/http. Each HTTPFetcher owns its
// transport, so closing it releases exactly the connections it opened.
type HTTPFetcher struct {
	client    *http.Client
	transport *http.Transport
	opts      HTTPOptions
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "nav-cli/1.0"
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		transport: transport,
		opts:      opts,
	}
}

// Download fetches the URL and returns the response body. Non-2xx responses
// and network failures are returned as *TransportError.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	zap.L().Debug("http get", zap.String("url", rawURL))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NewTransportError(rawURL, 0, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, NewTransportError(rawURL, resp.StatusCode, eris.Errorf("unexpected status %s", resp.Status))
	}

	resp.Body = &transportBody{ReadCloser: resp.Body, url: rawURL}
	body, err := utf8Body(resp)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return body, nil
}

// Close releases idle connections held by the session.
func (f *HTTPFetcher) Close() {
	f.transport.CloseIdleConnections()
}

// transportBody reports body read failures as *TransportError.
type transportBody struct {
	io.ReadCloser
	url string
}

func (b *transportBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		return n, NewTransportError(b.url, 0, err)
	}
	return n, err
}
