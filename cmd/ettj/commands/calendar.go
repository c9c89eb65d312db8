package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/internal/store"
)

// calendarCmd groups trading-calendar tools.
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Trading calendar tools",
}

// calendarSeedCmd seeds the database calendar table from the builtin rules.
var calendarSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database calendar from the builtin B3 rules",
	Long: `Generates the B3 trading calendar from holiday rules and writes it
to the business_days table, so CALENDAR_SOURCE=database deployments can
start from the rule-generated calendar and patch it with ad-hoc closures.

Example:
  go run ./cmd/ettj calendar seed`,
	RunE: runCalendarSeed,
}

// calendarCheckCmd reports whether a date is a business day.
var calendarCheckCmd = &cobra.Command{
	Use:   "check <date>",
	Short: "Check whether a date is an exchange business day",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarCheck,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarSeedCmd)
	calendarCmd.AddCommand(calendarCheckCmd)
}

func runCalendarSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	days, err := calendar.B3Rules{}.BusinessDays(ctx, a.cfg.Calendar.Exchange, calendar.HorizonStart, calendar.HorizonEnd)
	if err != nil {
		return fmt.Errorf("generate calendar: %w", err)
	}

	repo := store.NewCalendarRepository(a.db.Pool)
	if err := repo.SaveBusinessDays(ctx, a.cfg.Calendar.Exchange, days); err != nil {
		return fmt.Errorf("seed calendar: %w", err)
	}

	fmt.Printf("seeded %d business days for %s\n", len(days), a.cfg.Calendar.Exchange)
	return nil
}

func runCalendarCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", args[0], err)
	}

	if a.cal.IsBusinessDay(date) {
		fmt.Printf("%s is a %s business day\n", args[0], a.cal.Exchange())
	} else {
		fmt.Printf("%s is NOT a %s business day\n", args[0], a.cal.Exchange())
	}
	return nil
}
