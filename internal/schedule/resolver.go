package schedule

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/calendar"
)

// HolidayChecker reports whether a date is a public holiday
type HolidayChecker interface {
	IsHoliday(d civil.Date) (bool, error)
}

// Resolver decides which dates and wall-clock times count toward incentive pay
type Resolver struct {
	table    Table
	holidays HolidayChecker
}

// NewResolver creates a resolver over the given schedule table and holiday source
func NewResolver(table Table, holidays HolidayChecker) *Resolver {
	return &Resolver{
		table:    table,
		holidays: holidays,
	}
}

var defaultResolver = NewResolver(DefaultTable(), calendar.Default())

// Default returns the resolver built from DefaultTable and the default holiday calendar
func Default() *Resolver {
	return defaultResolver
}

// Table returns the schedule table used by the resolver
func (r *Resolver) Table() Table {
	return r.table
}

// ResolveDaySchedule maps a date to its schedule.
// Sundays and holidays are checked first and always resolve to NonWorking.
func (r *Resolver) ResolveDaySchedule(d civil.Date) (DaySchedule, error) {
	if err := ValidateDate(d); err != nil {
		return DaySchedule{}, err
	}

	weekday := calendar.Weekday(d)
	if weekday == time.Sunday {
		return r.table.Lookup(NonWorking), nil
	}

	holiday, err := r.holidays.IsHoliday(d)
	if err != nil {
		return DaySchedule{}, err
	}
	if holiday {
		return r.table.Lookup(NonWorking), nil
	}

	if weekday == time.Saturday {
		return r.table.Lookup(Saturday), nil
	}
	return r.table.Lookup(Weekday), nil
}

// IsWithinEligibleWindow reports whether t falls inside the eligible window of d
func (r *Resolver) IsWithinEligibleWindow(d civil.Date, t civil.Time) (bool, error) {
	if err := ValidateWallClock(t); err != nil {
		return false, err
	}

	s, err := r.ResolveDaySchedule(d)
	if err != nil {
		return false, err
	}
	return s.Contains(t), nil
}

// IsIntervalEligible reports whether both interval endpoints are individually
// inside the eligible window. Instants between them are not inspected.
func (r *Resolver) IsIntervalEligible(d civil.Date, start, end civil.Time) (bool, error) {
	ev, err := r.Evaluate(d, start, end)
	if err != nil {
		return false, err
	}
	return ev.Eligible, nil
}

// EligibleHoursForDay returns the paid-hours denominator for d
func (r *Resolver) EligibleHoursForDay(d civil.Date) (decimal.Decimal, error) {
	s, err := r.ResolveDaySchedule(d)
	if err != nil {
		return decimal.Zero, err
	}
	return s.TotalEligibleHours, nil
}

// Evaluation is the detailed outcome of an interval check
type Evaluation struct {
	Date          civil.Date
	Start         civil.Time
	End           civil.Time
	Schedule      DaySchedule
	StartEligible bool
	EndEligible   bool
	Eligible      bool
}

// Evaluate resolves the day schedule once and checks both interval endpoints
func (r *Resolver) Evaluate(d civil.Date, start, end civil.Time) (Evaluation, error) {
	if err := ValidateWallClock(start); err != nil {
		return Evaluation{}, err
	}
	if err := ValidateWallClock(end); err != nil {
		return Evaluation{}, err
	}

	s, err := r.ResolveDaySchedule(d)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		Date:          d,
		Start:         start,
		End:           end,
		Schedule:      s,
		StartEligible: s.Contains(start),
		EndEligible:   s.Contains(end),
	}
	ev.Eligible = ev.StartEligible && ev.EndEligible
	return ev, nil
}

// ResolveDaySchedule resolves d with the default resolver
func ResolveDaySchedule(d civil.Date) (DaySchedule, error) {
	return defaultResolver.ResolveDaySchedule(d)
}

// IsWithinEligibleWindow checks t on d with the default resolver
func IsWithinEligibleWindow(d civil.Date, t civil.Time) (bool, error) {
	return defaultResolver.IsWithinEligibleWindow(d, t)
}

// IsIntervalEligible checks both endpoints on d with the default resolver
func IsIntervalEligible(d civil.Date, start, end civil.Time) (bool, error) {
	return defaultResolver.IsIntervalEligible(d, start, end)
}

// EligibleHoursForDay returns the eligible hours of d with the default resolver
func EligibleHoursForDay(d civil.Date) (decimal.Decimal, error) {
	return defaultResolver.EligibleHoursForDay(d)
}
