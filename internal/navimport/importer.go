// Package navimport fetches NAV histories for many schemes concurrently and
// merges them into one ordered sequence.
package navimport

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/nav-cli/internal/fetcher"
	"github.com/sells-group/nav-cli/internal/mfapi"
	"github.com/sells-group/nav-cli/internal/model"
)

// SessionFactory opens the shared connection context for one import.
type SessionFactory func() fetcher.Fetcher

// Importer runs one fetch per scheme code over a shared session.
type Importer struct {
	baseURL    string
	newSession SessionFactory
}

// New creates an Importer. baseURL is passed to mfapi.NewClient.
func New(baseURL string, newSession SessionFactory) *Importer {
	return &Importer{baseURL: baseURL, newSession: newSession}
}

// Import fetches every scheme code concurrently and returns all records
// sorted descending by (scheme code, date). Duplicate codes are fetched
// once per occurrence. The first failure cancels the remaining fetches and
// no partial result is returned.
func (im *Importer) Import(ctx context.Context, schemeCodes []int) ([]model.NAV, error) {
	log := zap.L().With(zap.String("run_id", uuid.New().String()))
	log.Info("fetching navs",
		zap.Int("count", len(schemeCodes)),
		zap.Ints("scheme_codes", schemeCodes),
	)

	if len(schemeCodes) == 0 {
		return []model.NAV{}, nil
	}

	session := im.newSession()
	defer session.Close()
	client := mfapi.NewClient(im.baseURL, session)

	results := make([][]model.NAV, len(schemeCodes))

	g, gCtx := errgroup.WithContext(ctx)
	for i, code := range schemeCodes {
		g.Go(func() error {
			navs, err := client.FetchNAVs(gCtx, code)
			if err != nil {
				return eris.Wrapf(err, "import: scheme %d", code)
			}
			log.Debug("fetched scheme", zap.Int("scheme_code", code), zap.Int("rows", len(navs)))
			results[i] = navs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("import failed", zap.Error(err))
		return nil, err
	}

	total := 0
	for _, navs := range results {
		total += len(navs)
	}
	merged := make([]model.NAV, 0, total)
	for _, navs := range results {
		merged = append(merged, navs...)
	}
	model.SortDescending(merged)

	log.Info("fetched navs", zap.Int("rows", len(merged)))
	return merged, nil
}
