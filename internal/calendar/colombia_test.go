package calendar

import (
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want civil.Date
	}{
		{1961, d(1961, time.April, 2)},
		{2000, d(2000, time.April, 23)},
		{2008, d(2008, time.March, 23)},
		{2011, d(2011, time.April, 24)},
		{2019, d(2019, time.April, 21)},
		{2024, d(2024, time.March, 31)},
		{2025, d(2025, time.April, 20)},
		{2026, d(2026, time.April, 5)},
		{2038, d(2038, time.April, 25)},
		{2285, d(2285, time.March, 22)},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := Easter(tt.year)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Sunday, Weekday(got))
		})
	}
}

func TestEaster_AlwaysBetweenMarch22AndApril25(t *testing.T) {
	lower := func(y int) civil.Date { return d(y, time.March, 22) }
	upper := func(y int) civil.Date { return d(y, time.April, 25) }

	for year := 1583; year <= 4099; year++ {
		e := Easter(year)
		if e.Before(lower(year)) || e.After(upper(year)) {
			t.Fatalf("Easter(%d) = %s, outside [Mar 22, Apr 25]", year, e)
		}
		if Weekday(e) != time.Sunday {
			t.Fatalf("Easter(%d) = %s is a %s", year, e, Weekday(e))
		}
	}
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name  string
		input civil.Date
		want  civil.Date
	}{
		{"Monday stays", d(2024, time.January, 8), d(2024, time.January, 8)},
		{"Tuesday moves six days", d(2024, time.January, 9), d(2024, time.January, 15)},
		{"Saturday moves two days", d(2024, time.January, 6), d(2024, time.January, 8)},
		{"Sunday moves one day", d(2024, time.January, 7), d(2024, time.January, 8)},
		{"Crosses month boundary", d(2024, time.August, 29), d(2024, time.September, 2)},
		{"Crosses year boundary", d(2025, time.December, 31), d(2026, time.January, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextMonday(tt.input))
		})
	}
}

func TestNextMonday_ResultIsAlwaysMonday(t *testing.T) {
	start := d(2020, time.January, 1)
	for i := 0; i < 3*366; i++ {
		date := start.AddDays(i)
		got := NextMonday(date)

		require.Equal(t, time.Monday, Weekday(got), "NextMonday(%s)", date)
		if Weekday(date) == time.Monday {
			require.Equal(t, date, got)
		} else {
			diff := got.DaysSince(date)
			require.True(t, diff >= 1 && diff <= 6, "NextMonday(%s) moved %d days", date, diff)
		}
	}
}

func TestObtainHolidays_2024(t *testing.T) {
	set, err := ObtainHolidays(2024)
	require.NoError(t, err)

	want := []civil.Date{
		d(2024, time.January, 1),
		d(2024, time.January, 8), // Epiphany, Jan 6 is a Saturday
		d(2024, time.March, 25),  // Saint Joseph, Mar 19 is a Tuesday
		d(2024, time.March, 28),  // Maundy Thursday
		d(2024, time.March, 29),  // Good Friday
		d(2024, time.May, 1),
		d(2024, time.May, 13),  // Ascension
		d(2024, time.June, 3),  // Corpus Christi
		d(2024, time.June, 10), // Sacred Heart
		d(2024, time.July, 1),  // Saints Peter and Paul
		d(2024, time.July, 20),
		d(2024, time.August, 7),
		d(2024, time.August, 19), // Assumption
		d(2024, time.October, 14),
		d(2024, time.November, 4),
		d(2024, time.November, 11),
		d(2024, time.December, 8),
		d(2024, time.December, 25),
	}

	for _, date := range want {
		assert.True(t, set.Contains(date), "expected %s to be a holiday", date)
	}
	assert.Equal(t, len(want), set.Len())

	assert.False(t, set.Contains(d(2024, time.January, 6)), "Epiphany is observed on Monday")
	assert.False(t, set.Contains(d(2024, time.March, 19)), "Saint Joseph is observed on Monday")
}

func TestObtainHolidays_CountInvariant(t *testing.T) {
	for year := 1900; year <= 2200; year++ {
		set, err := ObtainHolidays(year)
		require.NoError(t, err)
		if set.Len() < 15 || set.Len() > 18 {
			t.Fatalf("ObtainHolidays(%d) returned %d dates", year, set.Len())
		}
		for _, h := range set.Sorted() {
			require.Equal(t, year, h.Date.Year, "holiday %s escaped year %d", h.Name, year)
			if h.Rule.Shifted() {
				require.Equal(t, time.Monday, Weekday(h.Date), "%s on %s", h.Name, h.Date)
			}
		}
	}
}

func TestObtainHolidays_UnshiftedEasterHolidays(t *testing.T) {
	set, err := ObtainHolidays(2025)
	require.NoError(t, err)

	// Easter 2025 is April 20
	h, ok := set.Get(d(2025, time.April, 17))
	require.True(t, ok)
	assert.Equal(t, RuleEaster, h.Rule)
	assert.Equal(t, time.Thursday, Weekday(h.Date))

	h, ok = set.Get(d(2025, time.April, 18))
	require.True(t, ok)
	assert.Equal(t, time.Friday, Weekday(h.Date))
}

func TestObtainHolidays_Collision(t *testing.T) {
	// 2025: Sacred Heart (Easter + 68, Friday June 27) and Saints Peter and Paul
	// (Sunday June 29) are both observed on Monday June 30.
	set, err := ObtainHolidays(2025)
	require.NoError(t, err)
	assert.Equal(t, 17, set.Len())

	h, ok := set.Get(d(2025, time.June, 30))
	require.True(t, ok)
	assert.Equal(t, "Sagrado Corazón", h.Name)
	assert.Equal(t, RuleEasterShifted, h.Rule)
}

func TestHolidays_InvalidYear(t *testing.T) {
	hc := NewHolidayCalendar()

	for _, year := range []int{0, -5, 10000} {
		_, err := hc.Holidays(year)
		assert.ErrorIs(t, err, ErrInvalidYear, "year %d", year)
	}

	_, err := hc.IsHoliday(civil.Date{Year: 0, Month: time.January, Day: 1})
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestHolidays_MemoisedAndConcurrent(t *testing.T) {
	hc := NewHolidayCalendar()

	var wg sync.WaitGroup
	results := make([]HolidaySet, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := hc.Holidays(2030)
			if err == nil {
				results[i] = set
			}
		}(i)
	}
	wg.Wait()

	for _, set := range results {
		require.NotNil(t, set)
		assert.Equal(t, results[0].Sorted(), set.Sorted())
	}
}

func TestLookup(t *testing.T) {
	hc := NewHolidayCalendar()

	h, ok, err := hc.Lookup(d(2024, time.July, 20))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Día de la Independencia", h.Name)
	assert.Equal(t, RuleFixed, h.Rule)

	_, ok, err = hc.Lookup(d(2024, time.July, 22))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSorted(t *testing.T) {
	set, err := ObtainHolidays(2026)
	require.NoError(t, err)

	sorted := set.Sorted()
	require.Len(t, sorted, set.Len())
	for i := 1; i < len(sorted); i++ {
		assert.True(t, sorted[i-1].Date.Before(sorted[i].Date))
	}
	assert.Equal(t, d(2026, time.January, 1), sorted[0].Date)
	assert.Equal(t, d(2026, time.December, 25), sorted[len(sorted)-1].Date)
}
