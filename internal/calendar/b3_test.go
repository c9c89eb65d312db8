package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2021, date(2021, time.April, 4)},
		{2023, date(2023, time.April, 9)},
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, easter(tt.year), "easter %d", tt.year)
	}
}

func TestB3Rules_BusinessDays(t *testing.T) {
	days, err := B3Rules{}.BusinessDays(context.Background(), "BMF",
		date(2021, time.January, 1), date(2025, time.January, 1))
	require.NoError(t, err)
	require.NotEmpty(t, days)

	set := make(map[time.Time]struct{}, len(days))
	for i, d := range days {
		set[d] = struct{}{}

		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		if i > 0 {
			assert.True(t, days[i-1].Before(d), "days must be ascending")
		}
	}

	open := func(d time.Time) bool {
		_, ok := set[d]
		return ok
	}

	// Fixed national holidays
	assert.False(t, open(date(2024, time.January, 1)))
	assert.False(t, open(date(2024, time.May, 1)))
	assert.False(t, open(date(2023, time.December, 25)))

	// Easter-derived closures in 2024: Carnival Feb 12-13, Good Friday
	// Mar 29, Corpus Christi May 30
	assert.False(t, open(date(2024, time.February, 12)))
	assert.False(t, open(date(2024, time.February, 13)))
	assert.False(t, open(date(2024, time.March, 29)))
	assert.False(t, open(date(2024, time.May, 30)))

	// Regular weekdays around them are open
	assert.True(t, open(date(2024, time.February, 14)))
	assert.True(t, open(date(2024, time.March, 28)))

	// São Paulo municipal holidays dropped from 2022 on
	assert.False(t, open(date(2021, time.January, 25))) // Monday, closed
	assert.True(t, open(date(2022, time.January, 25)))  // Tuesday, open

	// Consciência Negra national from 2024 on
	assert.True(t, open(date(2023, time.November, 20)))  // Monday, open
	assert.False(t, open(date(2024, time.November, 20))) // Wednesday, closed
}

func TestLoad_BuildsCalendarFromRules(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-horizon calendar generation")
	}

	cal, err := Load(context.Background(), B3Rules{}, "BMF")
	require.NoError(t, err)

	assert.Equal(t, "BMF", cal.Exchange())
	// Roughly 250 business days a year over an 80-year horizon
	assert.Greater(t, cal.BusinessDayCount(), 19000)
	assert.True(t, cal.IsBusinessDay(date(2024, time.January, 2)))
	assert.False(t, cal.IsBusinessDay(date(2024, time.January, 1)))
}
