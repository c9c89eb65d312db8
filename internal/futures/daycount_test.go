package futures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessDayCount(t *testing.T) {
	cal := testCalendar(t, date(2024, time.January, 1), date(2024, time.December, 31))

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		// Tue 2 -> Wed 10, skipping the weekend: 3,4,5,8,9,10
		{"spec scenario", date(2024, time.January, 2), date(2024, time.January, 10), 6},
		{"same day", date(2024, time.June, 12), date(2024, time.June, 12), 0},
		{"end before start", date(2024, time.June, 12), date(2024, time.June, 10), 0},
		{"weekend only", date(2024, time.January, 5), date(2024, time.January, 7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BusinessDayCount(cal, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalendarDayCount(t *testing.T) {
	cal := testCalendar(t, date(2024, time.January, 1), date(2024, time.December, 31))

	got, err := CalendarDayCount(cal, date(2024, time.January, 2), date(2024, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	got, err = CalendarDayCount(cal, date(2024, time.June, 12), date(2024, time.June, 12))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestCalendarCountDominatesBusinessCount(t *testing.T) {
	cal := testCalendar(t,
		date(2024, time.January, 1), date(2024, time.December, 31),
		date(2024, time.May, 1),
	)

	start := date(2024, time.January, 2)
	for end := start.AddDate(0, 0, 1); end.Before(date(2024, time.July, 1)); end = end.AddDate(0, 0, 7) {
		du, err := BusinessDayCount(cal, start, end)
		require.NoError(t, err)
		dc, err := CalendarDayCount(cal, start, end)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, dc, du, "end %s", end)
	}
}

func TestDayCount_OutOfHorizonIsHardError(t *testing.T) {
	cal := testCalendar(t, date(2024, time.January, 1), date(2024, time.December, 31))

	_, err := BusinessDayCount(cal, date(2024, time.January, 2), date(2099, time.December, 15))
	assert.ErrorIs(t, err, ErrOutOfHorizon)

	_, err = CalendarDayCount(cal, date(1989, time.June, 1), date(2024, time.January, 2))
	assert.ErrorIs(t, err, ErrOutOfHorizon)
}
