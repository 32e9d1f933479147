package main

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/pkg/dateutil"
	"go.uber.org/zap"
)

func holidaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holidays [year]",
		Short: "List the Colombian public holidays of a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := dateutil.Today().Year
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q: %w", args[0], err)
				}
				year = y
			}

			set, err := calendar.ObtainHolidays(year)
			if err != nil {
				return err
			}

			outPrintf("\n🎉 Public holidays %d (%d days)\n", year, set.Len())
			outPrintln("═══════════════════════════════════════════════════════")
			for _, h := range set.Sorted() {
				outPrintf("  %s  %-9s  %-15s %s\n",
					h.Date, calendar.Weekday(h.Date), h.Rule, h.Name)
			}
			outPrintf("\n  Easter Sunday: %s\n", calendar.Easter(year))

			return nil
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <date>",
		Short: "Show the bonus-eligible window of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}

			info, err := resolver.GetDayInfo(d.In(time.UTC))
			if err != nil {
				return err
			}

			outPrintf("%s (%s): %s\n", info.Date, info.Weekday, info.Schedule)
			if info.Holiday != "" {
				outPrintf("  Holiday: %s\n", info.Holiday)
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <date> <time>",
		Short: "Check whether a wall-clock time is inside the eligible window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			t, err := schedule.ParseWallClock(args[1])
			if err != nil {
				return err
			}

			ev, err := resolver.Evaluate(d, t, t)
			if err != nil {
				return err
			}

			logger.Debug("Eligibility checked",
				zap.String("date", d.String()),
				zap.String("time", t.String()),
				zap.Bool("eligible", ev.StartEligible))

			outPrintf("%s %s %s  [%s]\n", eligibleIcon(ev.StartEligible), d, t, ev.Schedule)
			return nil
		},
	}
}

func intervalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interval <date> <start> <end>",
		Short: "Check whether both ends of a work interval are inside the eligible window",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			d, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			start, err := schedule.ParseWallClock(args[1])
			if err != nil {
				return err
			}
			end, err := schedule.ParseWallClock(args[2])
			if err != nil {
				return err
			}

			ev, err := resolver.Evaluate(d, start, end)
			if err != nil {
				return err
			}

			outPrintf("%s %s %s-%s  [%s]\n", eligibleIcon(ev.Eligible), d, start, end, ev.Schedule)
			outPrintf("  start %s %s\n", start, eligibleIcon(ev.StartEligible))
			outPrintf("  end   %s %s\n", end, eligibleIcon(ev.EndEligible))
			return nil
		},
	}
}

func monthCmd() *cobra.Command {
	var tee string

	cmd := &cobra.Command{
		Use:   "month [year] [month]",
		Short: "Per-day breakdown of eligible hours for a month",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			today := dateutil.Today()
			year, month := today.Year, today.Month
			if len(args) >= 1 {
				if year, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid year %q: %w", args[0], err)
				}
			}
			if len(args) == 2 {
				m, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid month %q: %w", args[1], err)
				}
				month = time.Month(m)
			}

			restore, err := teeOutput(tee)
			if err != nil {
				return err
			}
			defer restore()

			info, err := resolver.GetMonthInfo(year, month)
			if err != nil {
				return err
			}

			outPrintf("\n📊 %s %d\n", info.Month, info.Year)
			outPrintln("═══════════════════════════════════════════════════════")
			outPrintf("  Weekdays:        %d\n", info.WorkDays)
			outPrintf("  Saturdays:       %d\n", info.Saturdays)
			outPrintf("  Sundays:         %d\n", info.Sundays)
			outPrintf("  Holidays:        %d\n", info.Holidays)
			outPrintf("  Eligible hours:  %sh\n", info.EligibleHours)

			outPrintln("\n📅 Per-day breakdown:")
			outPrintln("═══════════════════════════════════════════════════════")
			outPrintln("  Date       | Day | Window            | Hours | Note")
			outPrintln("-------------+-----+-------------------+-------+----------------")
			for _, day := range info.Days {
				window := "-"
				if day.IsWorkday {
					window = fmt.Sprintf("%s-%s", day.Schedule.WindowStart, day.Schedule.WindowEnd)
				}
				outPrintf("  %s | %s | %-17s | %4sh | %s\n",
					day.Date,
					day.Weekday.String()[:3],
					window,
					day.EligibleHours,
					day.Holiday)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tee, "tee-output", "", "Mirror output to file")

	return cmd
}

func parseDateArg(s string) (civil.Date, error) {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %v", schedule.ErrInvalidDate, err)
	}
	if err := schedule.ValidateDate(d); err != nil {
		return civil.Date{}, err
	}
	return d, nil
}

func eligibleIcon(eligible bool) string {
	if eligible {
		return "✅"
	}
	return "❌"
}
