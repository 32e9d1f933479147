// Package conformance produces and replays golden eligibility vectors.
//
// A vector table is generated once from the canonical resolver and checked into
// CI. Any other implementation of the bonus window (the HTTP API, a client-side
// port) replays the same table and must reproduce every row.
package conformance

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/pkg/dateutil"
	"github.com/username/bonus-hours/pkg/random"
)

// Vector is one (date, time) sample with its expected outcome
type Vector struct {
	Date          string `csv:"date"`
	Time          string `csv:"time"`
	Weekday       string `csv:"weekday"`
	Kind          string `csv:"kind"`
	Eligible      bool   `csv:"eligible"`
	EligibleHours string `csv:"eligible_hours"`
}

// Options controls vector generation
type Options struct {
	FromYear      int
	ToYear        int
	SamplesPerDay int   // random times added to the boundary times
	DaysPerYear   int   // 0 means every day of the year
	Seed          int64 // seed for the random times
}

// boundaryTimes straddle the default weekday and Saturday windows
var boundaryTimes = []civil.Time{
	{Hour: 6, Minute: 59, Second: 59},
	{Hour: 7},
	{Hour: 7, Minute: 59, Second: 59},
	{Hour: 8},
	{Hour: 12},
	{Hour: 12, Second: 1},
	{Hour: 16},
	{Hour: 16, Second: 1},
}

// Generate evaluates the resolver over every selected day in the year range
func Generate(r *schedule.Resolver, opts Options) ([]Vector, error) {
	if opts.FromYear > opts.ToYear {
		return nil, fmt.Errorf("from year %d is after to year %d", opts.FromYear, opts.ToYear)
	}

	sampler := random.NewSampler(opts.Seed)
	var vectors []Vector

	for year := opts.FromYear; year <= opts.ToYear; year++ {
		if year < calendar.MinYear || year > calendar.MaxYear {
			return nil, fmt.Errorf("%w: %d", calendar.ErrInvalidYear, year)
		}

		days := dateutil.Days(
			civil.Date{Year: year, Month: 1, Day: 1},
			civil.Date{Year: year, Month: 12, Day: 31},
		)
		if opts.DaysPerYear > 0 && opts.DaysPerYear < len(days) {
			picked := make([]civil.Date, 0, opts.DaysPerYear)
			for _, idx := range sampler.SelectRandomItems(len(days), opts.DaysPerYear) {
				picked = append(picked, days[idx])
			}
			days = picked
		}

		for _, d := range days {
			s, err := r.ResolveDaySchedule(d)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", d, err)
			}

			clocks := append([]civil.Time(nil), boundaryTimes...)
			for i := 0; i < opts.SamplesPerDay; i++ {
				if i%2 == 0 {
					clocks = append(clocks, sampler.WallClock())
				} else {
					edge := boundaryTimes[sampler.SelectRandomItems(len(boundaryTimes), 1)[0]]
					clocks = append(clocks, sampler.WallClockNear(edge, 120))
				}
			}

			for _, t := range clocks {
				vectors = append(vectors, Vector{
					Date:          d.String(),
					Time:          t.String(),
					Weekday:       calendar.Weekday(d).String(),
					Kind:          s.Kind.String(),
					Eligible:      s.Contains(t),
					EligibleHours: s.TotalEligibleHours.String(),
				})
			}
		}
	}

	return vectors, nil
}

// parse converts the textual date and time of a vector
func (v Vector) parse() (civil.Date, civil.Time, error) {
	d, err := schedule.ParseDate(v.Date)
	if err != nil {
		return civil.Date{}, civil.Time{}, err
	}
	t, err := schedule.ParseWallClock(v.Time)
	if err != nil {
		return civil.Date{}, civil.Time{}, err
	}
	return d, t, nil
}
