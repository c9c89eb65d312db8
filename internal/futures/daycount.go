package futures

import (
	"fmt"
	"time"

	"github.com/b3data/ettj/internal/calendar"
)

// BusinessDayCount counts the business days strictly after start and up to
// and including end. Returns 0 when end <= start. Dates outside the loaded
// calendar horizon are a hard error rather than a silent undercount.
func BusinessDayCount(cal *calendar.TradingCalendar, start, end time.Time) (int, error) {
	if err := checkHorizon(cal, start, end); err != nil {
		return 0, err
	}
	return cal.BusinessDaysBetween(start, end), nil
}

// CalendarDayCount counts every day strictly after start and up to and
// including end, weekends and holidays included. Returns 0 when
// end <= start.
func CalendarDayCount(cal *calendar.TradingCalendar, start, end time.Time) (int, error) {
	if err := checkHorizon(cal, start, end); err != nil {
		return 0, err
	}
	return cal.CalendarDaysBetween(start, end), nil
}

func checkHorizon(cal *calendar.TradingCalendar, dates ...time.Time) error {
	for _, d := range dates {
		if !cal.WithinHorizon(d) {
			return fmt.Errorf("%w: %s", ErrOutOfHorizon, d.Format("2006-01-02"))
		}
	}
	return nil
}
