package fetcher

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

type readCloser struct {
	io.Reader
	io.Closer
}

// utf8Body wraps the response body so that it is read as UTF-8 regardless of
// the charset declared in Content-Type.
func utf8Body(resp *http.Response) (io.ReadCloser, error) {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return resp.Body, nil
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return resp.Body, nil
	}
	charset := strings.ToLower(strings.TrimSpace(params["charset"]))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return resp.Body, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "unsupported charset %q", charset)
	}
	return readCloser{Reader: enc.NewDecoder().Reader(resp.Body), Closer: resp.Body}, nil
}
