package schedule

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ErrInvalidSchedule is returned when a schedule window is malformed
var ErrInvalidSchedule = errors.New("invalid schedule")

// DayKind is the weekday class a date resolves to
type DayKind int

const (
	NonWorking DayKind = iota
	Weekday
	Saturday
)

func (k DayKind) String() string {
	switch k {
	case Weekday:
		return "weekday"
	case Saturday:
		return "saturday"
	default:
		return "non-working"
	}
}

// DaySchedule is the bonus-eligible window of a day.
// Both window bounds are inclusive.
type DaySchedule struct {
	Kind               DayKind
	WindowStart        civil.Time
	WindowEnd          civil.Time
	TotalEligibleHours decimal.Decimal
}

// Working reports whether the schedule has an eligible window at all
func (s DaySchedule) Working() bool {
	return s.Kind != NonWorking
}

// Contains reports whether t falls inside the window
func (s DaySchedule) Contains(t civil.Time) bool {
	if !s.Working() {
		return false
	}
	off := ClockOffset(t)
	return ClockOffset(s.WindowStart) <= off && off <= ClockOffset(s.WindowEnd)
}

func (s DaySchedule) String() string {
	if !s.Working() {
		return fmt.Sprintf("%s (0h)", s.Kind)
	}
	return fmt.Sprintf("%s %s-%s (%sh)", s.Kind, s.WindowStart, s.WindowEnd, s.TotalEligibleHours)
}

var nonWorking = DaySchedule{Kind: NonWorking, TotalEligibleHours: decimal.Zero}

// Table maps weekday classes to their schedules. NonWorking is fixed.
type Table struct {
	weekday  DaySchedule
	saturday DaySchedule
}

// DefaultTable returns the plant schedule: 07:00-16:00 (8h) Monday to Friday,
// 08:00-12:00 (4h) on Saturday.
func DefaultTable() Table {
	return Table{
		weekday: DaySchedule{
			Kind:               Weekday,
			WindowStart:        civil.Time{Hour: 7},
			WindowEnd:          civil.Time{Hour: 16},
			TotalEligibleHours: decimal.NewFromInt(8),
		},
		saturday: DaySchedule{
			Kind:               Saturday,
			WindowStart:        civil.Time{Hour: 8},
			WindowEnd:          civil.Time{Hour: 12},
			TotalEligibleHours: decimal.NewFromInt(4),
		},
	}
}

// Window describes one configurable schedule entry
type Window struct {
	Start civil.Time
	End   civil.Time
	Hours decimal.Decimal
}

// NewTable builds a schedule table from weekday and Saturday windows
func NewTable(weekday, saturday Window) (Table, error) {
	if err := weekday.validate(); err != nil {
		return Table{}, fmt.Errorf("weekday: %w", err)
	}
	if err := saturday.validate(); err != nil {
		return Table{}, fmt.Errorf("saturday: %w", err)
	}

	return Table{
		weekday:  DaySchedule{Kind: Weekday, WindowStart: weekday.Start, WindowEnd: weekday.End, TotalEligibleHours: weekday.Hours},
		saturday: DaySchedule{Kind: Saturday, WindowStart: saturday.Start, WindowEnd: saturday.End, TotalEligibleHours: saturday.Hours},
	}, nil
}

func (w Window) validate() error {
	if !w.Start.IsValid() || !w.End.IsValid() {
		return fmt.Errorf("%w: window bounds must be within [00:00:00, 24:00:00)", ErrInvalidSchedule)
	}
	if ClockOffset(w.Start) > ClockOffset(w.End) {
		return fmt.Errorf("%w: window start %s is after end %s", ErrInvalidSchedule, w.Start, w.End)
	}
	if w.Hours.IsNegative() {
		return fmt.Errorf("%w: eligible hours must not be negative", ErrInvalidSchedule)
	}
	return nil
}

// Lookup returns the schedule for a weekday class
func (t Table) Lookup(kind DayKind) DaySchedule {
	switch kind {
	case Weekday:
		return t.weekday
	case Saturday:
		return t.saturday
	default:
		return nonWorking
	}
}

// ClockOffset returns the time elapsed since midnight, to the nanosecond
func ClockOffset(t civil.Time) time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Nanosecond)
}
