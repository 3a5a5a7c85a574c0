package navimport

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nav-cli/internal/fetcher"
	"github.com/sells-group/nav-cli/internal/mfapi"
	"github.com/sells-group/nav-cli/internal/model"
)

// trackedSession counts Close calls on the wrapped session.
type trackedSession struct {
	fetcher.Fetcher
	closed *atomic.Int32
}

func (s trackedSession) Close() {
	s.closed.Add(1)
	s.Fetcher.Close()
}

type fakeUpstream struct {
	srv    *httptest.Server
	hits   atomic.Int32
	opened atomic.Int32
	closed atomic.Int32
}

func newFakeUpstream(t *testing.T, bodies map[string]string) *fakeUpstream {
	t.Helper()
	u := &fakeUpstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		body, ok := bodies[strings.TrimPrefix(r.URL.Path, "/mf/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *fakeUpstream) importer() *Importer {
	return New(u.srv.URL, func() fetcher.Fetcher {
		u.opened.Add(1)
		return trackedSession{
			Fetcher: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 5 * time.Second}),
			closed:  &u.closed,
		}
	})
}

var twoFunds = map[string]string{
	"100": `{"data":[{"date":"01-01-2021","nav":"10.50"},{"date":"01-02-2021","nav":"11.00"}]}`,
	"200": `{"data":[{"date":"01-01-2021","nav":"20.00"}]}`,
}

func rows(navs []model.NAV) [][]string {
	out := make([][]string, len(navs))
	for i, n := range navs {
		out[i] = n.Fields()
	}
	return out
}

func TestImport_MergesAndSortsDescending(t *testing.T) {
	u := newFakeUpstream(t, twoFunds)

	navs, err := u.importer().Import(context.Background(), []int{100, 200})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"200", "", "2021-01-01", "20.00"},
		{"100", "", "2021-02-01", "11.00"},
		{"100", "", "2021-01-01", "10.50"},
	}, rows(navs))
	assert.Equal(t, int32(2), u.hits.Load())
	assert.Equal(t, int32(1), u.opened.Load())
	assert.Equal(t, int32(1), u.closed.Load())
}

func TestImport_StrictlyDescending(t *testing.T) {
	bodies := map[string]string{}
	codes := []int{}
	for code := 1; code <= 25; code++ {
		var sb strings.Builder
		sb.WriteString(`{"data":[`)
		for day := 1; day <= 10; day++ {
			if day > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, `{"date":"%02d-03-2022","nav":"%d.%d"}`, 11-day, code, day)
		}
		sb.WriteString(`]}`)
		bodies[fmt.Sprint(code)] = sb.String()
		codes = append(codes, code)
	}
	u := newFakeUpstream(t, bodies)

	navs, err := u.importer().Import(context.Background(), codes)
	require.NoError(t, err)
	require.Len(t, navs, 250)
	assert.Equal(t, int32(25), u.hits.Load())

	for i := 1; i < len(navs); i++ {
		assert.True(t, navs[i].Less(navs[i-1]), "row %d not below row %d", i, i-1)
	}
}

func TestImport_DuplicateCodesFetchedEachTime(t *testing.T) {
	u := newFakeUpstream(t, twoFunds)

	navs, err := u.importer().Import(context.Background(), []int{200, 200, 200})
	require.NoError(t, err)
	assert.Equal(t, int32(3), u.hits.Load())
	assert.Len(t, navs, 3)
}

func TestImport_EmptyInput(t *testing.T) {
	u := newFakeUpstream(t, twoFunds)

	navs, err := u.importer().Import(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, navs)
	assert.Zero(t, u.hits.Load())
	assert.Zero(t, u.opened.Load())
}

func TestImport_DecodeFailureAbortsRun(t *testing.T) {
	bodies := map[string]string{
		"100": twoFunds["100"],
		"300": `this is not json`,
	}
	u := newFakeUpstream(t, bodies)

	navs, err := u.importer().Import(context.Background(), []int{100, 300})
	require.Error(t, err)
	assert.Nil(t, navs)
	assert.True(t, mfapi.IsDecode(err))
	assert.Contains(t, err.Error(), "scheme 300")
	assert.Equal(t, int32(1), u.closed.Load())
}

func TestImport_TransportFailureAbortsRun(t *testing.T) {
	u := newFakeUpstream(t, twoFunds)

	navs, err := u.importer().Import(context.Background(), []int{100, 999})
	require.Error(t, err)
	assert.Nil(t, navs)
	assert.True(t, fetcher.IsTransport(err))
	assert.Equal(t, int32(1), u.closed.Load())
}

func TestImport_ValidationFailureAbortsRun(t *testing.T) {
	u := newFakeUpstream(t, map[string]string{
		"100": `{"data":[{"date":"01-01-2021","nav":"-1"}]}`,
	})

	_, err := u.importer().Import(context.Background(), []int{100})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestImport_FailureCancelsSiblings(t *testing.T) {
	release := make(chan struct{})
	slowArrived := make(chan struct{})
	var slowCancelled atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/mf/1" {
			select {
			case <-slowArrived:
			case <-time.After(2 * time.Second):
			}
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		close(slowArrived)
		select {
		case <-r.Context().Done():
			slowCancelled.Store(true)
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	im := New(srv.URL, func() fetcher.Fetcher {
		return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 10 * time.Second})
	})

	start := time.Now()
	_, err := im.Import(context.Background(), []int{1, 2})
	require.Error(t, err)
	assert.True(t, fetcher.IsTransport(err))
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Eventually(t, slowCancelled.Load, 2*time.Second, 10*time.Millisecond)
}
