package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// curveCmd prints a stored term structure.
var curveCmd = &cobra.Command{
	Use:   "curve <product> [date]",
	Short: "Print the stored term structure of a product",
	Long: `Prints the stored curve (contract, expiry, day counts, rate) of a
product for one trade date. Without a date the latest stored trade date is
used.

Example:
  go run ./cmd/ettj curve DI1
  go run ./cmd/ettj curve DI1 2024-01-02`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCurve,
}

func init() {
	rootCmd.AddCommand(curveCmd)
}

func runCurve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	repo := a.settlementRepo()
	product := args[0]

	var tradeDate time.Time
	if len(args) == 2 {
		tradeDate, err = time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", args[1], err)
		}
	} else {
		tradeDate, err = repo.LatestTradeDate(ctx, product)
		if err != nil {
			return fmt.Errorf("no stored data for %s: %w", product, err)
		}
	}

	settlements, err := repo.GetCurve(ctx, product, tradeDate)
	if err != nil {
		return fmt.Errorf("load curve: %w", err)
	}
	if len(settlements) == 0 {
		return fmt.Errorf("no curve for %s on %s", product, tradeDate.Format("2006-01-02"))
	}

	fmt.Printf("%s curve on %s\n\n", product, tradeDate.Format("2006-01-02"))
	fmt.Printf("%-8s %-12s %6s %6s %12s %10s\n", "code", "expiry", "du", "dc", "settle", "rate")
	for _, s := range settlements {
		rate := "-"
		if s.Rate != nil {
			rate = fmt.Sprintf("%.4f%%", *s.Rate*100)
		}
		fmt.Printf("%-8s %-12s %6d %6d %12.2f %10s\n",
			s.ContractCode,
			s.ExpiryDate.Format("2006-01-02"),
			s.BusinessDays,
			s.CalendarDays,
			s.SettlePrice,
			rate,
		)
	}
	return nil
}
