package futures

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownConvention aborts a whole batch: the convention selector is a
	// configuration value, not row data.
	ErrUnknownConvention = errors.New("unknown expiry convention")

	// ErrNoBusinessDayInMonth is returned when the calendar has no business
	// day for the requested month, typically because the horizon ended.
	ErrNoBusinessDayInMonth = errors.New("no business day in month")

	// ErrInsufficientFridays is returned when a month holds fewer than three
	// Fridays. Cannot happen for a real month, but it is a defined failure
	// rather than an index fault.
	ErrInsufficientFridays = errors.New("fewer than three fridays in month")

	// ErrNoBusinessDayAfterFifteenth is returned when no business day exists
	// on or after the 15th before the horizon ends.
	ErrNoBusinessDayAfterFifteenth = errors.New("no business day on or after the 15th")

	// ErrOutOfHorizon is returned when a date falls outside the loaded
	// calendar horizon. Day counts fail hard instead of silently
	// undercounting.
	ErrOutOfHorizon = errors.New("date outside calendar horizon")
)

// DecodeError reports a malformed contract code. It is local to one row;
// batch processing isolates it and continues with the remaining rows.
type DecodeError struct {
	Code   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid contract code %q: %s", e.Code, e.Reason)
}
