package futures

import (
	"fmt"
	"time"

	"github.com/b3data/ettj/internal/calendar"
)

// FirstBusinessDayOfMonth returns the earliest business day of the month.
func FirstBusinessDayOfMonth(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	days := cal.BusinessDaysInMonth(year, month)
	if len(days) == 0 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d", ErrNoBusinessDayInMonth, year, month)
	}
	return days[0], nil
}

// LastBusinessDayOfMonth returns the latest business day of the month.
func LastBusinessDayOfMonth(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	days := cal.BusinessDaysInMonth(year, month)
	if len(days) == 0 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d", ErrNoBusinessDayInMonth, year, month)
	}
	return days[len(days)-1], nil
}

// ThirdFridayOfMonth returns the third Friday of the month. When that
// Friday is an exchange holiday the expiry moves back to the last business
// day before it. The result is always a business day.
func ThirdFridayOfMonth(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	var fridays []time.Time
	for _, d := range cal.DaysInMonth(year, month) {
		if d.Weekday() == time.Friday {
			fridays = append(fridays, d)
		}
	}
	if len(fridays) < 3 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d", ErrInsufficientFridays, year, month)
	}

	third := fridays[2]
	if cal.IsBusinessDay(third) {
		return third, nil
	}

	prev, ok := cal.LastBusinessDayBefore(third)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no business day before %s", ErrOutOfHorizon, third.Format("2006-01-02"))
	}
	return prev, nil
}

// WednesdayNearestFifteen returns the Wednesday of the month closest to the
// 15th, earliest first on a distance tie. When that Wednesday is an exchange
// holiday the expiry moves forward to the next business day. The result is
// always a business day.
//
// The adjustment direction deliberately differs from ThirdFridayOfMonth:
// this contract rolls forward, the Friday contract rolls back.
func WednesdayNearestFifteen(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	var chosen time.Time
	best := -1
	for _, d := range cal.DaysInMonth(year, month) {
		if d.Weekday() != time.Wednesday {
			continue
		}
		dist := d.Day() - 15
		if dist < 0 {
			dist = -dist
		}
		// Strict < keeps the earliest Wednesday on a tie.
		if best == -1 || dist < best {
			best = dist
			chosen = d
		}
	}
	if best == -1 {
		return time.Time{}, fmt.Errorf("%w: no wednesday in %04d-%02d", ErrNoBusinessDayInMonth, year, month)
	}

	if cal.IsBusinessDay(chosen) {
		return chosen, nil
	}

	next, ok := cal.FirstBusinessDayAfter(chosen)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no business day after %s", ErrOutOfHorizon, chosen.Format("2006-01-02"))
	}
	return next, nil
}

// FifteenthOrNext returns the 15th of the month, or the earliest business
// day after it when the 15th is not a business day.
func FifteenthOrNext(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	fifteenth := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
	if !cal.WithinHorizon(fifteenth) {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-15", ErrNoBusinessDayAfterFifteenth, year, month)
	}

	d, ok := cal.NextBusinessDayOnOrAfter(fifteenth)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-15", ErrNoBusinessDayAfterFifteenth, year, month)
	}
	return d, nil
}
