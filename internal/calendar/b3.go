package calendar

import (
	"context"
	"time"
)

// B3Rules generates the B3 (BM&F/Bovespa) trading calendar from holiday
// rules: Monday to Friday, minus national holidays and the Easter-derived
// exchange closures. Used when no calendar table is maintained in the
// database.
type B3Rules struct{}

// BusinessDays returns every B3 business day in [start, end).
func (B3Rules) BusinessDays(_ context.Context, _ string, start, end time.Time) ([]time.Time, error) {
	first := Midnight(start)
	last := Midnight(end)

	holidaysByYear := make(map[int]map[time.Time]struct{})

	var days []time.Time
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		hs, ok := holidaysByYear[d.Year()]
		if !ok {
			hs = b3Holidays(d.Year())
			holidaysByYear[d.Year()] = hs
		}
		if _, closed := hs[d]; closed {
			continue
		}

		days = append(days, d)
	}
	return days, nil
}

// b3Holidays returns the exchange closures for one year.
func b3Holidays(year int) map[time.Time]struct{} {
	date := func(m time.Month, d int) time.Time {
		return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
	}

	pascoa := easter(year)

	holidays := []time.Time{
		date(time.January, 1),           // Confraternização Universal
		pascoa.AddDate(0, 0, -48),       // Carnival Monday
		pascoa.AddDate(0, 0, -47),       // Carnival Tuesday
		pascoa.AddDate(0, 0, -2),        // Good Friday
		date(time.April, 21),            // Tiradentes
		date(time.May, 1),               // Dia do Trabalho
		pascoa.AddDate(0, 0, 60),        // Corpus Christi
		date(time.September, 7),         // Independência
		date(time.October, 12),          // Nossa Senhora Aparecida
		date(time.November, 2),          // Finados
		date(time.November, 15),         // Proclamação da República
		date(time.December, 25),         // Natal
	}

	// São Paulo municipal holidays were observed by the exchange until the
	// move to a national-only calendar in 2022.
	if year < 2022 {
		holidays = append(holidays,
			date(time.January, 25), // Aniversário de São Paulo
			date(time.July, 9),     // Revolução Constitucionalista
		)
	}

	// Consciência Negra became a national holiday in 2024.
	if year >= 2024 {
		holidays = append(holidays, date(time.November, 20))
	}

	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	return set
}

// easter computes Gregorian Easter Sunday via the anonymous computus.
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
