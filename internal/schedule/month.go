package schedule

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/calendar"
)

// DayInfo represents information about a specific day
type DayInfo struct {
	Date          civil.Date
	Weekday       time.Weekday
	Schedule      DaySchedule
	IsWorkday     bool
	EligibleHours decimal.Decimal
	Holiday       string // empty unless the day is a public holiday
}

// MonthInfo represents schedule information for a month
type MonthInfo struct {
	Year          int
	Month         time.Month
	EligibleHours decimal.Decimal // Total eligible hours in the month
	WorkDays      int             // Monday-Friday working days
	Saturdays     int             // working Saturdays
	Sundays       int
	Holidays      int // holidays not falling on a Sunday
	Days          []DayInfo
}

// Calendar is the month/day view consumed by reports and the API
type Calendar interface {
	// IsWorkday checks if the given date has an eligible window
	IsWorkday(date time.Time) (bool, decimal.Decimal, error)

	// GetMonthInfo returns schedule info for the entire month
	GetMonthInfo(year int, month time.Month) (*MonthInfo, error)

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date time.Time) (*DayInfo, error)
}

// HolidayLookup is implemented by holiday sources that can name holidays
type HolidayLookup interface {
	Lookup(d civil.Date) (calendar.Holiday, bool, error)
}

var _ Calendar = (*Resolver)(nil)

// IsWorkday checks if the given date is a working day
func (r *Resolver) IsWorkday(date time.Time) (bool, decimal.Decimal, error) {
	s, err := r.ResolveDaySchedule(civil.DateOf(date))
	if err != nil {
		return false, decimal.Zero, err
	}
	return s.Working(), s.TotalEligibleHours, nil
}

// GetDayInfo returns detailed info for a specific day
func (r *Resolver) GetDayInfo(date time.Time) (*DayInfo, error) {
	info, err := r.dayInfo(civil.DateOf(date))
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// GetMonthInfo returns schedule info for the entire month
func (r *Resolver) GetMonthInfo(year int, month time.Month) (*MonthInfo, error) {
	first := civil.Date{Year: year, Month: month, Day: 1}
	if err := ValidateDate(first); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}

	monthInfo := &MonthInfo{
		Year:          year,
		Month:         month,
		EligibleHours: decimal.Zero,
	}

	for d := first; d.Month == month; d = d.AddDays(1) {
		info, err := r.dayInfo(d)
		if err != nil {
			return nil, err
		}

		switch {
		case info.Holiday != "" && info.Weekday != time.Sunday:
			monthInfo.Holidays++
		case info.Weekday == time.Sunday:
			monthInfo.Sundays++
		case info.Schedule.Kind == Saturday:
			monthInfo.Saturdays++
		case info.Schedule.Kind == Weekday:
			monthInfo.WorkDays++
		}

		monthInfo.EligibleHours = monthInfo.EligibleHours.Add(info.EligibleHours)
		monthInfo.Days = append(monthInfo.Days, info)
	}

	return monthInfo, nil
}

func (r *Resolver) dayInfo(d civil.Date) (DayInfo, error) {
	s, err := r.ResolveDaySchedule(d)
	if err != nil {
		return DayInfo{}, err
	}

	info := DayInfo{
		Date:          d,
		Weekday:       calendar.Weekday(d),
		Schedule:      s,
		IsWorkday:     s.Working(),
		EligibleHours: s.TotalEligibleHours,
	}

	if lookup, ok := r.holidays.(HolidayLookup); ok {
		h, found, err := lookup.Lookup(d)
		if err != nil {
			return DayInfo{}, err
		}
		if found {
			info.Holiday = h.Name
		}
	}

	return info, nil
}
