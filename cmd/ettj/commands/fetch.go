package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	fetchFrom    string
	fetchTo      string
	fetchExclude []string
	fetchWorkers int
)

// fetchCmd collects settlement bulletins for one date or a date range.
var fetchCmd = &cobra.Command{
	Use:   "fetch [date]",
	Short: "Collect the B3 settlement bulletin",
	Long: `Downloads the settlement bulletin, resolves expiries, computes day
counts and rates for the configured products, and stores the result when a
database is configured.

With no arguments the current bulletin is collected. A single YYYY-MM-DD
argument collects that date; --from/--to collect every business day of a
range.

Example:
  go run ./cmd/ettj fetch
  go run ./cmd/ettj fetch 2024-01-02
  go run ./cmd/ettj fetch --from 2024-01-02 --to 2024-01-31 --exclude 2024-01-15`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "range start (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "range end (YYYY-MM-DD)")
	fetchCmd.Flags().StringSliceVar(&fetchExclude, "exclude", nil, "dates to skip within the range (YYYY-MM-DD)")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 4, "parallel enrichment workers")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.newPipeline(fetchWorkers)
	if err != nil {
		return err
	}

	// Range mode
	if fetchFrom != "" || fetchTo != "" {
		if fetchFrom == "" || fetchTo == "" {
			return fmt.Errorf("--from and --to must be used together")
		}
		from, err := time.Parse("2006-01-02", fetchFrom)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := time.Parse("2006-01-02", fetchTo)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		exclude := make([]time.Time, 0, len(fetchExclude))
		for _, s := range fetchExclude {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fmt.Errorf("invalid --exclude date %q: %w", s, err)
			}
			exclude = append(exclude, d)
		}

		results, errs := p.CollectRange(ctx, from, to, exclude)
		for _, res := range results {
			fmt.Printf("%s: fetched=%d enriched=%d stored=%d row_errors=%d\n",
				res.TradeDate.Format("2006-01-02"), res.Fetched, res.Enriched, res.Stored, len(res.RowErrors))
		}
		for _, e := range errs {
			a.log.WithError(e).Error("Collection day failed")
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d of %d days failed", len(errs), len(results)+len(errs))
		}
		return nil
	}

	// Single date mode
	var date time.Time
	if len(args) == 1 {
		date, err = time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[0], err)
		}
	}

	res, err := p.CollectDate(ctx, date)
	if err != nil {
		return err
	}

	fmt.Printf("%s: fetched=%d enriched=%d stored=%d\n",
		res.TradeDate.Format("2006-01-02"), res.Fetched, res.Enriched, res.Stored)
	for _, rowErr := range res.RowErrors {
		fmt.Printf("  skipped: %v\n", rowErr)
	}
	return nil
}
