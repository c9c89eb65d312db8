package futures

import (
	"fmt"
	"time"

	"github.com/b3data/ettj/internal/calendar"
)

// Convention selects which expiry-resolution rule applies to a contract.
// The set is closed: each exchange rule has its own holiday-adjustment
// policy and the switch in Resolve is exhaustive over these values.
type Convention int

const (
	// FirstBusinessDay expires on the first business day of the month.
	FirstBusinessDay Convention = iota
	// LastBusinessDay expires on the last business day of the month.
	LastBusinessDay
	// ThirdFridayAdjusted expires on the third Friday, moved back to the
	// previous business day on a holiday.
	ThirdFridayAdjusted
	// WednesdayNearestFifteenAdjusted expires on the Wednesday closest to
	// the 15th, moved forward to the next business day on a holiday.
	WednesdayNearestFifteenAdjusted
	// FifteenthOrNextBusinessDay expires on the 15th, or the next business
	// day when the 15th is not one.
	FifteenthOrNextBusinessDay
)

// conventionNames maps each convention to its selector string, the tokens
// used in configuration and in the settlement database.
var conventionNames = map[Convention]string{
	FirstBusinessDay:                "prim_du",
	LastBusinessDay:                 "ult_du",
	ThirdFridayAdjusted:             "terceira_sexta",
	WednesdayNearestFifteenAdjusted: "quarta_prox_quinze",
	FifteenthOrNextBusinessDay:      "dia_15",
}

// ParseConvention maps a selector string to its Convention.
func ParseConvention(s string) (Convention, error) {
	for conv, name := range conventionNames {
		if name == s {
			return conv, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConvention, s)
}

// Valid reports whether c is one of the defined conventions.
func (c Convention) Valid() bool {
	_, ok := conventionNames[c]
	return ok
}

func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("convention(%d)", int(c))
}

// Resolve returns the expiry date for a contract month under this
// convention, using the injected trading calendar.
func (c Convention) Resolve(cal *calendar.TradingCalendar, year int, month time.Month) (time.Time, error) {
	switch c {
	case FirstBusinessDay:
		return FirstBusinessDayOfMonth(cal, year, month)
	case LastBusinessDay:
		return LastBusinessDayOfMonth(cal, year, month)
	case ThirdFridayAdjusted:
		return ThirdFridayOfMonth(cal, year, month)
	case WednesdayNearestFifteenAdjusted:
		return WednesdayNearestFifteen(cal, year, month)
	case FifteenthOrNextBusinessDay:
		return FifteenthOrNext(cal, year, month)
	default:
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnknownConvention, int(c))
	}
}
