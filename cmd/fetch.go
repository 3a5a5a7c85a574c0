package main

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/nav-cli/internal/export"
	"github.com/sells-group/nav-cli/internal/fetcher"
	"github.com/sells-group/nav-cli/internal/model"
	"github.com/sells-group/nav-cli/internal/navimport"
	"github.com/sells-group/nav-cli/internal/watchlist"
)

type fetchOptions struct {
	codes     []int
	codesFile string
	minDate   dateFlag
	maxDate   dateFlag
	outFile   string
	format    string
}

func (o *fetchOptions) register(fs *pflag.FlagSet) {
	fs.IntSliceVar(&o.codes, "codes", nil, "AMFI scheme codes of the mutual funds (repeatable, comma separated, or followed by more codes)")
	fs.StringVar(&o.codesFile, "codes-file", "", "YAML watchlist with a codes list, merged with --codes")
	fs.Var(&o.minDate, "min_date", "earliest NAV date to keep, YYYYMMDD (default from filter.min_date, 20200101)")
	fs.Var(&o.maxDate, "max-date", "latest NAV date to keep, YYYYMMDD (default today); must not be before --min_date")
	fs.StringVar(&o.outFile, "out_file", "", "full path of the output file (default <temp dir>/NAV_<today>.<format>)")
	fs.StringVar(&o.format, "format", "", "output format: csv, json or xlsx (default from output.format)")
}

// dateFlag is a YYYYMMDD flag value. Malformed input fails flag parsing.
type dateFlag struct {
	t *time.Time
}

func (d *dateFlag) String() string {
	if d.t == nil {
		return ""
	}
	return d.t.Format(model.CompactDateLayout)
}

func (d *dateFlag) Set(s string) error {
	t, err := model.ParseCompactDate(s)
	if err != nil {
		return err
	}
	d.t = &t
	return nil
}

func (d *dateFlag) Type() string { return "YYYYMMDD" }

// resolveCodes combines --codes, trailing positional codes, and the watchlist.
func resolveCodes(opts *fetchOptions, args []string) ([]int, error) {
	codes := make([]int, 0, len(opts.codes)+len(args))
	codes = append(codes, opts.codes...)
	for _, arg := range args {
		code, err := strconv.Atoi(arg)
		if err != nil {
			return nil, eris.Errorf("invalid scheme code %q", arg)
		}
		codes = append(codes, code)
	}

	if opts.codesFile != "" {
		wl, err := watchlist.Load(opts.codesFile)
		if err != nil {
			return nil, err
		}
		codes = wl.Merge(codes)
	}

	if len(codes) == 0 {
		return nil, eris.New("at least one scheme code is required")
	}
	for _, code := range codes {
		if code <= 0 {
			return nil, eris.Errorf("invalid scheme code %d: must be positive", code)
		}
	}
	return codes, nil
}

func runFetch(ctx context.Context, opts *fetchOptions, args []string) error {
	log := zap.L().With(zap.String("command", "fetch"))

	codes, err := resolveCodes(opts, args)
	if err != nil {
		return err
	}

	formatName := opts.format
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	now := time.Now()
	dates, err := export.NewRange(opts.minDate.t, opts.maxDate.t, cfg.MinDate(), now)
	if err != nil {
		return err
	}

	outFile := opts.outFile
	if outFile == "" {
		outFile = export.DefaultPath(cfg.Output.Dir, now, format)
	}

	importer := navimport.New(cfg.API.BaseURL, func() fetcher.Fetcher {
		return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent: cfg.API.UserAgent,
			Timeout:   cfg.API.Timeout(),
		})
	})

	navs, err := importer.Import(ctx, codes)
	if err != nil {
		return eris.Wrap(err, "fetch navs")
	}

	n, err := export.Write(outFile, format, export.FilterByDate(navs, dates))
	if err != nil {
		return eris.Wrap(err, "write navs")
	}

	log.Info("fetch complete",
		zap.Int("fetched", len(navs)),
		zap.Int("written", n),
		zap.String("min_date", dates.Min.Format(model.ISODateLayout)),
		zap.String("max_date", dates.Max.Format(model.ISODateLayout)),
		zap.String("out_file", outFile),
	)
	return nil
}
