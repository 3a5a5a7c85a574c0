// Package mfapi fetches NAV history for mutual fund schemes from mfapi.in.
package mfapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nav-cli/internal/fetcher"
	"github.com/sells-group/nav-cli/internal/model"
)

// DefaultBaseURL is the public mfapi.in endpoint.
const DefaultBaseURL = "https://api.mfapi.in"

// DecodeError reports an upstream body that is not the expected JSON shape.
type DecodeError struct {
	SchemeCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode scheme %d: %v", e.SchemeCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecode returns true if the error (or any error in its chain) is a DecodeError.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Client maps mfapi.in responses into NAV records.
type Client struct {
	baseURL string
	fetcher fetcher.Fetcher
}

// NewClient returns a Client issuing requests through f. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string, f fetcher.Fetcher) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), fetcher: f}
}

// SchemeURL returns the NAV history URL for a scheme code.
func (c *Client) SchemeURL(schemeCode int) string {
	return fmt.Sprintf("%s/mf/%d", c.baseURL, schemeCode)
}

// FetchNAVs downloads the full NAV history for one scheme, preserving the
// upstream order.
func (c *Client) FetchNAVs(ctx context.Context, schemeCode int) ([]model.NAV, error) {
	url := c.SchemeURL(schemeCode)
	zap.L().Debug("calling mfapi", zap.Int("scheme_code", schemeCode), zap.String("url", url))

	body, err := c.fetcher.Download(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "mfapi: fetch scheme %d", schemeCode)
	}
	defer body.Close() //nolint:errcheck

	resp, err := fetcher.DecodeJSONObject[schemeResponse](body)
	if err != nil {
		if fetcher.IsTransport(err) || ctx.Err() != nil {
			return nil, eris.Wrapf(err, "mfapi: read scheme %d", schemeCode)
		}
		return nil, &DecodeError{SchemeCode: schemeCode, Err: err}
	}
	if err := resp.validate(); err != nil {
		return nil, &DecodeError{SchemeCode: schemeCode, Err: err}
	}

	navs := make([]model.NAV, 0, len(*resp.Data))
	for i, node := range *resp.Data {
		nav, err := node.toNAV(schemeCode, resp.schemeName())
		if err != nil {
			return nil, eris.Wrapf(err, "mfapi: scheme %d row %d", schemeCode, i)
		}
		navs = append(navs, nav)
	}
	return navs, nil
}
