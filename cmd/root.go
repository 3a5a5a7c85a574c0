package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/nav-cli/internal/config"
)

var cfg *config.Config

func newRootCmd() *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "nav-cli --codes CODE [CODE...]",
		Short: "Fetch NAVs for a list of mutual funds",
		Long: `Downloads the NAV history of each AMFI scheme code from mfapi.in, keeps the
rows inside the requested date range and writes them to a file with the columns
scheme_code, scheme_name, nav_date, nav (no header row).

Both date bounds are inclusive. A --min_date later than --max-date is rejected
as a usage error (exit code 1) before any request is made, instead of writing
an empty file.

Examples:
  # Two funds, default range (2020-01-01 to today), CSV in the temp directory
  nav-cli --codes 119551 120503

  # Bounded range, explicit output
  nav-cli --codes 119551 --min_date 20230101 --max-date 20231231 --out_file navs.csv

  # Codes from a watchlist, written as xlsx
  nav-cli --codes-file funds.yaml --format xlsx`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = c

			if err := config.InitLogger(cfg.Log); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), opts, args)
		},
	}

	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
	opts.register(cmd.Flags())
	cmd.MarkFlagsOneRequired("codes", "codes-file")

	return cmd
}

// normalizeFlagName accepts both snake_case and kebab-case flag spellings.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
