package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable signals that the calendar source could not produce a
// calendar for the horizon. Nothing can be resolved or counted without a
// calendar, so callers treat this as fatal.
var ErrUnavailable = errors.New("trading calendar unavailable")

// Source supplies the business-open dates of a named exchange over a date
// range. Implementations: the builtin rule generator (B3Rules) and the
// Postgres-backed store.CalendarRepository.
type Source interface {
	BusinessDays(ctx context.Context, exchange string, start, end time.Time) ([]time.Time, error)
}

// Load builds the process-wide TradingCalendar from a source, covering the
// fixed horizon. It is called once at startup; the result is shared
// read-only for the rest of the run.
func Load(ctx context.Context, src Source, exchange string) (*TradingCalendar, error) {
	days, err := src.BusinessDays(ctx, exchange, HorizonStart, HorizonEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, exchange, err)
	}

	cal, err := New(exchange, days)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return cal, nil
}
