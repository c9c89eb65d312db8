package commands

import (
	"context"
	"fmt"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/internal/external/b3"
	"github.com/b3data/ettj/internal/pipeline"
	"github.com/b3data/ettj/internal/store"
	"github.com/b3data/ettj/pkg/config"
	"github.com/b3data/ettj/pkg/database"
	"github.com/b3data/ettj/pkg/httputil"
	"github.com/b3data/ettj/pkg/logger"
)

// app bundles the shared wiring of every command: config, logger, the
// process-wide trading calendar and the optional database handle.
type app struct {
	cfg *config.Config
	log *logger.Logger
	cal *calendar.TradingCalendar
	db  *database.DB
}

// newApp loads config, builds the logger and loads the trading calendar
// once. The database is connected when requireDB is set or when the
// calendar itself lives in the database.
func newApp(ctx context.Context, requireDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	needDB := requireDB || cfg.Calendar.Source == "database"
	if needDB {
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for this command")
		}
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.db = db
	}

	var src calendar.Source
	switch cfg.Calendar.Source {
	case "database":
		src = store.NewCalendarRepository(a.db.Pool)
	default:
		src = calendar.B3Rules{}
	}

	cal, err := calendar.Load(ctx, src, cfg.Calendar.Exchange)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.cal = cal

	log.WithFields(map[string]interface{}{
		"exchange":      cal.Exchange(),
		"source":        cfg.Calendar.Source,
		"business_days": cal.BusinessDayCount(),
	}).Debug("Trading calendar loaded")

	return a, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// settlementRepo returns the settlement repository, or nil when no database
// is connected.
func (a *app) settlementRepo() *store.SettlementRepository {
	if a.db == nil {
		return nil
	}
	return store.NewSettlementRepository(a.db.Pool)
}

// newPipeline wires the collection pipeline from the app's components.
func (a *app) newPipeline(workers int) (*pipeline.Pipeline, error) {
	httpClient := httputil.NewWithTimeout(a.log, a.cfg.B3.Timeout).
		WithRateLimit(a.cfg.B3.RequestsPerSecond)
	b3Client := b3.NewClient(httpClient, a.log, a.cfg.B3.BaseURL)

	return pipeline.New(b3Client, a.cal, a.settlementRepo(), a.log, a.cfg.Collect.Products, workers)
}
