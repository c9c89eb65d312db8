package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/b3data/ettj/internal/scheduler"
	"github.com/b3data/ettj/internal/scheduler/jobs"
)

var scheduleWorkers int

// scheduleCmd runs the cron-driven daily collection loop.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily settlement collection on a schedule",
	Long: `Runs the collection pipeline on the configured cron schedule
(COLLECT_SCHEDULE, default after bulletin publication on weekdays).
Non-business days are skipped.

Example:
  go run ./cmd/ettj schedule`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().IntVar(&scheduleWorkers, "workers", 4, "parallel enrichment workers")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.newPipeline(scheduleWorkers)
	if err != nil {
		return err
	}

	sched := scheduler.New(a.log)
	job := jobs.NewCollectionJob(p, a.cal, a.log, a.cfg.Collect.Schedule)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	a.log.WithField("signal", sig.String()).Info("Shutdown signal received")

	return nil
}
