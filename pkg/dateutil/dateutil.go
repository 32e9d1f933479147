package dateutil

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Split returns the local wall-clock date and time of t, as given
func Split(t time.Time) (civil.Date, civil.Time) {
	dt := civil.DateTimeOf(t)
	return dt.Date, dt.Time
}

// Today returns today's local date
func Today() civil.Date {
	return civil.DateOf(time.Now())
}

// StartOfMonth returns the first day of the month containing d
func StartOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of the month containing d
func EndOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month + 1, Day: 1}.AddDays(-1)
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(d civil.Date) civil.Date {
	weekday := int(d.In(time.UTC).Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return d.AddDays(-(weekday - 1))
}

// Days returns every date from `from` to `to`, both inclusive
func Days(from, to civil.Date) []civil.Date {
	if to.Before(from) {
		return nil
	}

	days := make([]civil.Date, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (civil.Date, error) {
	formats := []string{
		"2006-01-02",
		"02/01/2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return civil.DateOf(t), nil
		}
	}

	return civil.Date{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}
