package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

// BusinessCalendar exposes the holiday rules as a rickar/cal business calendar.
// Saturday counts as a workday since the plant runs a Saturday morning shift.
func (hc *HolidayCalendar) BusinessCalendar() *cal.BusinessCalendar {
	bc := cal.NewBusinessCalendar()
	bc.SetWorkday(time.Saturday, true)

	for _, r := range rules {
		bc.AddHoliday(hc.calHoliday(r))
	}

	return bc
}

// calHoliday wraps a rule so that cal evaluates it through the memoised holiday set
func (hc *HolidayCalendar) calHoliday(r rule) *cal.Holiday {
	return &cal.Holiday{
		Name: r.name,
		Func: func(h *cal.Holiday, year int) time.Time {
			if year < MinYear || year > MaxYear {
				return time.Time{}
			}
			d := r.date(year, Easter(year))
			// a colliding rule yields its date to the earlier one
			if set, err := hc.Holidays(year); err == nil {
				if owner, ok := set.Get(d); ok && owner.Name != r.name {
					return time.Time{}
				}
			}
			return d.In(time.UTC)
		},
	}
}
