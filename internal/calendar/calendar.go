package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Fixed horizon covered by every trading calendar, [HorizonStart, HorizonEnd).
var (
	HorizonStart = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)
	HorizonEnd   = time.Date(2070, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// TradingCalendar holds the business days of one exchange and every calendar
// day over the fixed horizon. It is immutable after construction and safe to
// share across goroutines; it is loaded once per process and passed by
// reference into every resolver and day-count call.
type TradingCalendar struct {
	exchange     string
	businessDays []time.Time
	allDays      []time.Time
	businessSet  map[time.Time]struct{}
	start, end   time.Time
}

// New builds a TradingCalendar from the raw business-day list of an exchange.
// Input dates are normalized to UTC midnight, deduplicated and sorted.
// Dates outside the horizon are rejected.
func New(exchange string, businessDays []time.Time) (*TradingCalendar, error) {
	if len(businessDays) == 0 {
		return nil, fmt.Errorf("calendar %s: no business days supplied", exchange)
	}

	set := make(map[time.Time]struct{}, len(businessDays))
	for _, d := range businessDays {
		day := Midnight(d)
		if day.Before(HorizonStart) || !day.Before(HorizonEnd) {
			return nil, fmt.Errorf("calendar %s: business day %s outside horizon [%s, %s)",
				exchange,
				day.Format("2006-01-02"),
				HorizonStart.Format("2006-01-02"),
				HorizonEnd.Format("2006-01-02"))
		}
		set[day] = struct{}{}
	}

	sorted := make([]time.Time, 0, len(set))
	for d := range set {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	// Every calendar day in the horizon, so that business days are a strict
	// subset of all days by construction.
	nDays := int(HorizonEnd.Sub(HorizonStart).Hours() / 24)
	all := make([]time.Time, 0, nDays)
	for d := HorizonStart; d.Before(HorizonEnd); d = d.AddDate(0, 0, 1) {
		all = append(all, d)
	}

	return &TradingCalendar{
		exchange:     exchange,
		businessDays: sorted,
		allDays:      all,
		businessSet:  set,
		start:        HorizonStart,
		end:          HorizonEnd,
	}, nil
}

// Midnight truncates a timestamp to its civil date at UTC midnight.
// All calendar queries operate on these normalized values.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Exchange returns the name of the exchange this calendar describes.
func (c *TradingCalendar) Exchange() string {
	return c.exchange
}

// Horizon returns the half-open date range [start, end) the calendar covers.
func (c *TradingCalendar) Horizon() (start, end time.Time) {
	return c.start, c.end
}

// WithinHorizon reports whether d falls inside the loaded horizon.
func (c *TradingCalendar) WithinHorizon(d time.Time) bool {
	day := Midnight(d)
	return !day.Before(c.start) && day.Before(c.end)
}

// IsBusinessDay reports whether d is an exchange business day.
func (c *TradingCalendar) IsBusinessDay(d time.Time) bool {
	_, ok := c.businessSet[Midnight(d)]
	return ok
}

// BusinessDaysInMonth returns the business days of the given month in
// ascending order. The returned slice is freshly allocated per call.
func (c *TradingCalendar) BusinessDaysInMonth(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	lo := c.searchBusiness(first)
	hi := c.searchBusiness(next)

	out := make([]time.Time, hi-lo)
	copy(out, c.businessDays[lo:hi])
	return out
}

// DaysInMonth returns every calendar day of the given month in ascending
// order, restricted to the horizon.
func (c *TradingCalendar) DaysInMonth(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var out []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		if !d.Before(c.start) && d.Before(c.end) {
			out = append(out, d)
		}
	}
	return out
}

// NextBusinessDayOnOrAfter returns the earliest business day d' with d' >= d.
// The boolean is false when no such day exists before the horizon ends.
func (c *TradingCalendar) NextBusinessDayOnOrAfter(d time.Time) (time.Time, bool) {
	i := c.searchBusiness(Midnight(d))
	if i >= len(c.businessDays) {
		return time.Time{}, false
	}
	return c.businessDays[i], true
}

// LastBusinessDayBefore returns the latest business day d' with d' < d.
// The boolean is false when no such day exists after the horizon start.
func (c *TradingCalendar) LastBusinessDayBefore(d time.Time) (time.Time, bool) {
	i := c.searchBusiness(Midnight(d))
	if i == 0 {
		return time.Time{}, false
	}
	return c.businessDays[i-1], true
}

// FirstBusinessDayAfter returns the earliest business day d' with d' > d.
// The boolean is false when no such day exists before the horizon ends.
func (c *TradingCalendar) FirstBusinessDayAfter(d time.Time) (time.Time, bool) {
	return c.NextBusinessDayOnOrAfter(Midnight(d).AddDate(0, 0, 1))
}

// BusinessDaysBetween counts business days in the half-open interval
// (after, through]: strictly after the first date, up to and including the
// second. Returns 0 when through <= after.
func (c *TradingCalendar) BusinessDaysBetween(after, through time.Time) int {
	a := Midnight(after)
	b := Midnight(through)
	if !b.After(a) {
		return 0
	}
	lo := c.searchBusiness(a.AddDate(0, 0, 1))
	hi := c.searchBusiness(b.AddDate(0, 0, 1))
	return hi - lo
}

// CalendarDaysBetween counts every day in the half-open interval
// (after, through], clipped to the horizon. Returns 0 when through <= after.
func (c *TradingCalendar) CalendarDaysBetween(after, through time.Time) int {
	a := Midnight(after)
	b := Midnight(through)
	if !b.After(a) {
		return 0
	}
	if a.Before(c.start.AddDate(0, 0, -1)) {
		a = c.start.AddDate(0, 0, -1)
	}
	if !b.Before(c.end) {
		b = c.end.AddDate(0, 0, -1)
	}
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// BusinessDayCount returns the total number of business days in the calendar.
func (c *TradingCalendar) BusinessDayCount() int {
	return len(c.businessDays)
}

// searchBusiness returns the index of the first business day >= d.
func (c *TradingCalendar) searchBusiness(d time.Time) int {
	return sort.Search(len(c.businessDays), func(i int) bool {
		return !c.businessDays[i].Before(d)
	})
}
