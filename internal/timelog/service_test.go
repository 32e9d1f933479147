package timelog_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/store/sqlite"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

func newService(t *testing.T) *timelog.Service {
	t.Helper()
	store, err := sqlite.New(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return timelog.NewService(store, schedule.Default(), calendar.Default().BusinessCalendar(), zap.NewNop())
}

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func clock(h, m int) civil.Time {
	return civil.Time{Hour: h, Minute: m}
}

func TestRecord_FlagsEligibility(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		date     civil.Date
		start    civil.Time
		end      civil.Time
		eligible bool
	}{
		{"weekday inside window", date(2024, time.March, 4), clock(7, 0), clock(16, 0), true},
		{"weekday ends after window", date(2024, time.March, 4), clock(15, 0), clock(16, 30), false},
		{"saturday morning", date(2024, time.March, 9), clock(8, 0), clock(12, 0), true},
		{"saturday afternoon", date(2024, time.March, 9), clock(12, 0), clock(13, 0), false},
		{"good friday", date(2024, time.March, 29), clock(9, 0), clock(10, 0), false},
		{"sunday", date(2024, time.March, 10), clock(9, 0), clock(10, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := svc.Record(ctx, timelog.Entry{
				Operator: "op-1",
				Machine:  "LATHE-1",
				Activity: timelog.ActivityProduction,
				Date:     tt.date,
				Start:    tt.start,
				End:      tt.end,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, e.BonusEligible)
			assert.NotEqual(t, uuid.Nil, e.ID)
			assert.False(t, e.CreatedAt.IsZero())
		})
	}
}

func TestRecord_Invalid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	valid := timelog.Entry{
		Operator: "op-1",
		Machine:  "LATHE-1",
		Activity: timelog.ActivitySetup,
		Date:     date(2024, time.March, 4),
		Start:    clock(8, 0),
		End:      clock(9, 0),
	}

	tests := []struct {
		name   string
		mutate func(e *timelog.Entry)
		target error
	}{
		{"missing operator", func(e *timelog.Entry) { e.Operator = " " }, timelog.ErrInvalidEntry},
		{"missing machine", func(e *timelog.Entry) { e.Machine = "" }, timelog.ErrInvalidEntry},
		{"unknown activity", func(e *timelog.Entry) { e.Activity = "lunch" }, timelog.ErrInvalidEntry},
		{"end before start", func(e *timelog.Entry) { e.End = clock(7, 0) }, timelog.ErrInvalidEntry},
		{"bad date", func(e *timelog.Entry) { e.Date = date(2023, time.February, 29) }, schedule.ErrInvalidDate},
		{"bad time", func(e *timelog.Entry) { e.Start = civil.Time{Hour: 24} }, schedule.ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			_, err := svc.Record(ctx, e)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestReport_March2024(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	record := func(d civil.Date, start, end civil.Time) {
		_, err := svc.Record(ctx, timelog.Entry{
			Operator: "op-1",
			Machine:  "CNC-2",
			Activity: timelog.ActivityProduction,
			Date:     d,
			Start:    start,
			End:      end,
		})
		require.NoError(t, err)
	}

	record(date(2024, time.March, 4), clock(7, 0), clock(11, 30)) // 4.5h eligible
	record(date(2024, time.March, 4), clock(12, 0), clock(17, 0)) // 5h not eligible
	record(date(2024, time.March, 9), clock(8, 0), clock(12, 0))  // 4h eligible
	record(date(2024, time.March, 29), clock(8, 0), clock(10, 0)) // 2h holiday
	record(date(2024, time.April, 1), clock(7, 0), clock(8, 0))   // outside range

	report, err := svc.Report(ctx, date(2024, time.March, 1), date(2024, time.March, 31))
	require.NoError(t, err)

	require.Len(t, report.Days, 31)
	assert.Equal(t, "15.5", report.WorkedHours.String())
	assert.Equal(t, "8.5", report.EligibleWorkedHours.String())
	assert.Equal(t, "164", report.EligibleHours.String())

	// 31 days minus 5 Sundays and 3 weekday holidays, Saturdays included
	assert.Equal(t, 23, report.WorkingDays)

	working := 0
	for _, d := range report.Days {
		if d.Kind != schedule.NonWorking {
			working++
		}
	}
	assert.Equal(t, working, report.WorkingDays)

	mon := report.Days[3]
	assert.Equal(t, date(2024, time.March, 4), mon.Date)
	assert.Equal(t, 2, mon.Entries)
	assert.Equal(t, "9.5", mon.WorkedHours.String())
	assert.Equal(t, "4.5", mon.EligibleWorkedHours.String())
	assert.Equal(t, "8", mon.EligibleHours.String())

	goodFriday := report.Days[28]
	assert.Equal(t, schedule.NonWorking, goodFriday.Kind)
	assert.Equal(t, "2", goodFriday.WorkedHours.String())
	assert.True(t, goodFriday.EligibleHours.IsZero())
}

func TestReport_InvalidRange(t *testing.T) {
	svc := newService(t)

	_, err := svc.Report(context.Background(), date(2024, time.March, 31), date(2024, time.March, 1))
	assert.ErrorIs(t, err, timelog.ErrInvalidEntry)
}

func TestReport_RangeLimit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	report, err := svc.Report(ctx, date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)
	assert.Len(t, report.Days, timelog.MaxRangeDays)

	_, err = svc.Report(ctx, date(2024, time.January, 1), date(2025, time.January, 1))
	assert.ErrorIs(t, err, timelog.ErrInvalidEntry)

	_, err = svc.Report(ctx, date(1, time.January, 1), date(9999, time.December, 31))
	assert.ErrorIs(t, err, timelog.ErrInvalidEntry)

	_, err = svc.List(ctx, date(2023, time.January, 1), date(2024, time.June, 30))
	assert.ErrorIs(t, err, timelog.ErrInvalidEntry)
}

func TestParseActivity(t *testing.T) {
	a, err := timelog.ParseActivity(" Repair ")
	require.NoError(t, err)
	assert.Equal(t, timelog.ActivityRepair, a)

	_, err = timelog.ParseActivity("nap")
	assert.ErrorIs(t, err, timelog.ErrInvalidEntry)
}

func TestEntryHours(t *testing.T) {
	e := timelog.Entry{Start: clock(7, 15), End: clock(9, 0)}
	assert.Equal(t, "1.75", e.Hours().String())
}
