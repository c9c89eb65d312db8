package futures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/b3data/ettj/internal/calendar"
	"github.com/b3data/ettj/pkg/logger"
)

// ContractRow is one contract observation to enrich: a trade date and the
// raw maturity code, plus the settlement price carried through for the rate
// step downstream. The derived fields are set by Applicator.Apply and the
// row is not touched afterwards.
type ContractRow struct {
	TradeDate    time.Time
	ContractCode string
	SettlePrice  float64

	// Derived
	ExpiryDate   time.Time
	BusinessDays int
	CalendarDays int
}

// RowError ties a row-level failure to the row it came from. Row errors
// never abort sibling rows; they are collected and reported after the batch.
type RowError struct {
	Index int
	Code  string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.Code, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// BatchResult holds the enriched rows in their original order and the
// accumulated row-level errors. Failed rows keep their zero derived fields.
type BatchResult struct {
	Rows   []ContractRow
	Errors []RowError
}

// Applicator enriches contract rows against a shared read-only calendar.
// Rows are independent, so they can be worked in parallel; results are
// indexed back into original row order.
type Applicator struct {
	cal     *calendar.TradingCalendar
	logger  *logger.Logger
	workers int
}

// NewApplicator creates an Applicator over the given calendar.
func NewApplicator(cal *calendar.TradingCalendar, log *logger.Logger) *Applicator {
	return &Applicator{
		cal:     cal,
		logger:  log.WithField("module", "applicator"),
		workers: 1,
	}
}

// WithWorkers sets the number of concurrent workers.
func (a *Applicator) WithWorkers(n int) *Applicator {
	if n > 0 {
		a.workers = n
	}
	return a
}

// Apply decodes every row's maturity code, resolves its expiry under the
// given convention and computes both day counts from the trade date. An
// unknown convention aborts the whole call: that is a configuration error,
// not a data error.
func (a *Applicator) Apply(ctx context.Context, rows []ContractRow, conv Convention) (*BatchResult, error) {
	if !conv.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownConvention, int(conv))
	}

	result := &BatchResult{Rows: make([]ContractRow, len(rows))}
	copy(result.Rows, rows)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	jobs := make(chan int)

	workers := a.workers
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := a.enrich(&result.Rows[i], conv); err != nil {
					mu.Lock()
					result.Errors = append(result.Errors, RowError{
						Index: i,
						Code:  result.Rows[i].ContractCode,
						Err:   err,
					})
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i := range result.Rows {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Deterministic error order regardless of worker interleaving.
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Index < result.Errors[j].Index
	})

	a.logger.WithFields(map[string]interface{}{
		"convention": conv.String(),
		"rows":       len(result.Rows),
		"failures":   len(result.Errors),
	}).Debug("Batch enrichment finished")

	return result, nil
}

// enrich fills in the derived fields of one row.
func (a *Applicator) enrich(row *ContractRow, conv Convention) error {
	month, year, err := DecodeCode(row.ContractCode)
	if err != nil {
		return err
	}

	expiry, err := conv.Resolve(a.cal, year, month)
	if err != nil {
		return err
	}

	du, err := BusinessDayCount(a.cal, row.TradeDate, expiry)
	if err != nil {
		return err
	}

	dc, err := CalendarDayCount(a.cal, row.TradeDate, expiry)
	if err != nil {
		return err
	}

	row.ExpiryDate = expiry
	row.BusinessDays = du
	row.CalendarDays = dc
	return nil
}
