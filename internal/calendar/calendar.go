package calendar

import (
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// MinYear and MaxYear bound the years accepted by the holiday calendar
	MinYear = 1
	MaxYear = 9999
)

// ErrInvalidYear is returned for years outside [MinYear, MaxYear]
var ErrInvalidYear = errors.New("invalid year")

// RuleKind describes how a holiday date is derived
type RuleKind int

const (
	RuleFixed RuleKind = iota + 1
	RuleEaster
	RuleEasterShifted
	RuleFixedShifted
)

func (k RuleKind) String() string {
	switch k {
	case RuleFixed:
		return "fixed"
	case RuleEaster:
		return "easter"
	case RuleEasterShifted:
		return "easter-shifted"
	case RuleFixedShifted:
		return "fixed-shifted"
	default:
		return "unknown"
	}
}

// Shifted reports whether the rule moves the holiday to the following Monday
func (k RuleKind) Shifted() bool {
	return k == RuleEasterShifted || k == RuleFixedShifted
}

// Holiday represents a non-working public holiday
type Holiday struct {
	Date civil.Date
	Name string
	Rule RuleKind
}

// HolidaySet is the read-only set of holidays observed in a single year.
// Sets are memoised and shared between callers.
type HolidaySet struct {
	byDate map[civil.Date]Holiday
}

// Contains reports whether the date is a holiday
func (s HolidaySet) Contains(d civil.Date) bool {
	_, ok := s.byDate[d]
	return ok
}

// Get returns the holiday observed on d
func (s HolidaySet) Get(d civil.Date) (Holiday, bool) {
	h, ok := s.byDate[d]
	return h, ok
}

// Len returns the number of distinct holiday dates
func (s HolidaySet) Len() int {
	return len(s.byDate)
}

// Sorted returns a fresh slice of the holidays ordered by date
func (s HolidaySet) Sorted() []Holiday {
	out := make([]Holiday, 0, len(s.byDate))
	for _, h := range s.byDate {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Weekday returns the day of week of a civil date
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
