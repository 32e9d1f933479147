package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/bonus-hours/internal/calendar"
)

var (
	// ErrInvalidDate is returned for malformed or out-of-range calendar dates
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime is returned for wall-clock values outside [00:00:00, 24:00:00)
	ErrInvalidTime = errors.New("invalid time")
)

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if err := ValidateDate(d); err != nil {
		return civil.Date{}, err
	}
	return d, nil
}

// ParseWallClock parses HH:MM or HH:MM:SS
func ParseWallClock(s string) (civil.Time, error) {
	s = strings.TrimSpace(s)

	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.TimeOf(t), nil
		}
	}

	return civil.Time{}, fmt.Errorf("%w: %q (want HH:MM or HH:MM:SS)", ErrInvalidTime, s)
}

// ValidateDate checks that d is a real Gregorian date the holiday calendar can handle
func ValidateDate(d civil.Date) error {
	if !d.IsValid() || d.Year < calendar.MinYear || d.Year > calendar.MaxYear {
		return fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	return nil
}

// ValidateWallClock checks that t lies within a single day
func ValidateWallClock(t civil.Time) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, t.Hour, t.Minute, t.Second)
	}
	return nil
}

// IsValidationError reports whether err is caused by bad caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, calendar.ErrInvalidYear)
}
