package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/internal/pipeline"
	"github.com/b3data/ettj/pkg/logger"
)

// CollectionJob runs the settlement collection pipeline for the current
// trading date after the bulletin is published.
type CollectionJob struct {
	pipeline *pipeline.Pipeline
	cal      *calendar.TradingCalendar
	logger   *logger.Logger
	schedule string
}

// NewCollectionJob creates the daily collection job.
func NewCollectionJob(p *pipeline.Pipeline, cal *calendar.TradingCalendar, log *logger.Logger, schedule string) *CollectionJob {
	return &CollectionJob{
		pipeline: p,
		cal:      cal,
		logger:   log.WithField("job", "settlement-collection"),
		schedule: schedule,
	}
}

// Name returns the job name
func (j *CollectionJob) Name() string {
	return "settlement-collection"
}

// Schedule returns the cron schedule expression
func (j *CollectionJob) Schedule() string {
	return j.schedule
}

// Run collects today's bulletin. Non-business days are skipped silently:
// the exchange publishes nothing on them.
func (j *CollectionJob) Run(ctx context.Context) error {
	today := calendar.Midnight(time.Now())

	if !j.cal.IsBusinessDay(today) {
		j.logger.WithField("date", today.Format("2006-01-02")).Info("Not a business day, skipping collection")
		return nil
	}

	result, err := j.pipeline.CollectDate(ctx, today)
	if err != nil {
		return fmt.Errorf("collect %s: %w", today.Format("2006-01-02"), err)
	}

	for _, rowErr := range result.RowErrors {
		j.logger.WithError(rowErr).Warn("Row skipped during collection")
	}

	return nil
}
