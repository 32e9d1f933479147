package calendar

import (
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
)

// rule describes one Colombian public holiday
type rule struct {
	name string
	kind RuleKind
	// month/day for fixed rules, offset from Easter Sunday for Easter rules
	month  time.Month
	day    int
	offset int
}

// rules are listed in precedence order: on a collision the earlier rule keeps the date
var rules = []rule{
	{name: "Año Nuevo", kind: RuleFixed, month: time.January, day: 1},
	{name: "Día del Trabajo", kind: RuleFixed, month: time.May, day: 1},
	{name: "Día de la Independencia", kind: RuleFixed, month: time.July, day: 20},
	{name: "Batalla de Boyacá", kind: RuleFixed, month: time.August, day: 7},
	{name: "Inmaculada Concepción", kind: RuleFixed, month: time.December, day: 8},
	{name: "Navidad", kind: RuleFixed, month: time.December, day: 25},

	{name: "Jueves Santo", kind: RuleEaster, offset: -3},
	{name: "Viernes Santo", kind: RuleEaster, offset: -2},
	{name: "Ascensión del Señor", kind: RuleEasterShifted, offset: 39},
	{name: "Corpus Christi", kind: RuleEasterShifted, offset: 60},
	{name: "Sagrado Corazón", kind: RuleEasterShifted, offset: 68},

	{name: "Reyes Magos", kind: RuleFixedShifted, month: time.January, day: 6},
	{name: "San José", kind: RuleFixedShifted, month: time.March, day: 19},
	{name: "San Pedro y San Pablo", kind: RuleFixedShifted, month: time.June, day: 29},
	{name: "Asunción de la Virgen", kind: RuleFixedShifted, month: time.August, day: 15},
	{name: "Día de la Raza", kind: RuleFixedShifted, month: time.October, day: 12},
	{name: "Todos los Santos", kind: RuleFixedShifted, month: time.November, day: 1},
	{name: "Independencia de Cartagena", kind: RuleFixedShifted, month: time.November, day: 11},
}

// date computes the observed date of the rule in the given year
func (r rule) date(year int, easter civil.Date) civil.Date {
	var d civil.Date
	switch r.kind {
	case RuleEaster, RuleEasterShifted:
		d = easter.AddDays(r.offset)
	default:
		d = civil.Date{Year: year, Month: r.month, Day: r.day}
	}
	if r.kind.Shifted() {
		d = NextMonday(d)
	}
	return d
}

// Easter returns Gregorian Easter Sunday using the anonymous Gregorian algorithm
func Easter(year int) civil.Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return civil.Date{Year: year, Month: time.Month(month), Day: day}
}

// NextMonday moves a date forward to the following Monday (Ley Emiliani).
// Dates already on a Monday are returned unchanged.
func NextMonday(d civil.Date) civil.Date {
	weekday := Weekday(d)
	if weekday == time.Monday {
		return d
	}

	daysToAdd := ((int(time.Monday) - int(weekday)) + 7) % 7
	if daysToAdd == 0 {
		daysToAdd = 7
	}
	return d.AddDays(daysToAdd)
}

// HolidayCalendar computes Colombian public holidays.
// Results are memoised per year; the cache only grows and is safe for concurrent use.
type HolidayCalendar struct {
	cache sync.Map // int -> HolidaySet
}

// NewHolidayCalendar creates a new HolidayCalendar
func NewHolidayCalendar() *HolidayCalendar {
	return &HolidayCalendar{}
}

var defaultCalendar = NewHolidayCalendar()

// Default returns the shared process-wide holiday calendar
func Default() *HolidayCalendar {
	return defaultCalendar
}

// ObtainHolidays returns the holidays for the year using the default calendar
func ObtainHolidays(year int) (HolidaySet, error) {
	return defaultCalendar.Holidays(year)
}

// Holidays returns the set of holidays observed in the given year
func (hc *HolidayCalendar) Holidays(year int) (HolidaySet, error) {
	if year < MinYear || year > MaxYear {
		return HolidaySet{}, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidYear, year, MinYear, MaxYear)
	}

	if cached, ok := hc.cache.Load(year); ok {
		return cached.(HolidaySet), nil
	}

	set := computeHolidays(year)
	actual, _ := hc.cache.LoadOrStore(year, set)
	return actual.(HolidaySet), nil
}

// IsHoliday checks if the given date is a public holiday
func (hc *HolidayCalendar) IsHoliday(d civil.Date) (bool, error) {
	_, ok, err := hc.Lookup(d)
	return ok, err
}

// Lookup returns the holiday observed on the given date, if any
func (hc *HolidayCalendar) Lookup(d civil.Date) (Holiday, bool, error) {
	set, err := hc.Holidays(d.Year)
	if err != nil {
		return Holiday{}, false, err
	}
	h, ok := set.Get(d)
	return h, ok, nil
}

func computeHolidays(year int) HolidaySet {
	easter := Easter(year)
	byDate := make(map[civil.Date]Holiday, len(rules))

	for _, r := range rules {
		d := r.date(year, easter)
		if _, exists := byDate[d]; exists {
			continue
		}
		byDate[d] = Holiday{Date: d, Name: r.name, Rule: r.kind}
	}

	return HolidaySet{byDate: byDate}
}
