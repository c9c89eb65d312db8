package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ettj",
	Short: "ETTJ - B3 futures settlement collector and term-structure builder",
	Long: `ETTJ collects the daily B3 settlement bulletin, resolves contract
expiry dates against the exchange trading calendar, computes business-day
and calendar-day counts to expiry and builds annualized interest-rate term
structures.

Usage:
  go run ./cmd/ettj [command]

Examples:
  go run ./cmd/ettj fetch 2024-01-02
  go run ./cmd/ettj fetch --from 2024-01-02 --to 2024-01-31
  go run ./cmd/ettj curve DI1 2024-01-02
  go run ./cmd/ettj serve
  go run ./cmd/ettj schedule`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}
