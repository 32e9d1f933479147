package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessCalendar_MatchesHolidaySet(t *testing.T) {
	hc := NewHolidayCalendar()
	bc := hc.BusinessCalendar()

	for _, year := range []int{2024, 2025} {
		set, err := hc.Holidays(year)
		require.NoError(t, err)

		start := d(year, time.January, 1)
		for i := 0; i < 365; i++ {
			date := start.AddDays(i)
			actual, _, _ := bc.IsHoliday(date.In(time.UTC))
			assert.Equal(t, set.Contains(date), actual, "IsHoliday(%s)", date)
		}
	}
}

func TestBusinessCalendar_SaturdayIsWorkday(t *testing.T) {
	bc := NewHolidayCalendar().BusinessCalendar()

	assert.True(t, bc.IsWorkday(d(2024, time.March, 23).In(time.UTC)), "plain Saturday")
	assert.False(t, bc.IsWorkday(d(2024, time.March, 24).In(time.UTC)), "Sunday")
	assert.False(t, bc.IsWorkday(d(2024, time.March, 29).In(time.UTC)), "Good Friday")
	assert.True(t, bc.IsWorkday(d(2024, time.March, 27).In(time.UTC)), "Holy Wednesday")
}
