package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"github.com/username/bonus-hours/internal/api"
	"github.com/username/bonus-hours/internal/apiclient"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/timelog"
	"github.com/username/bonus-hours/pkg/dateutil"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Record time entries and report eligible hours",
	}

	cmd.AddCommand(entriesAddCmd(), entriesReportCmd())

	return cmd
}

func entriesAddCmd() *cobra.Command {
	var req api.EntryRequest
	var remote string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Date == "" {
				req.Date = dateutil.Today().String()
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if remote != "" {
				entry, err := apiclient.NewClient(remote, logger).CreateEntry(ctx, req)
				if err != nil {
					return err
				}
				outPrintf("%s Entry %s recorded (%sh)\n", eligibleIcon(entry.BonusEligible), entry.ID, entry.Hours)
				return nil
			}

			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}
			service, store, err := openTimelog(cfg, resolver)
			if err != nil {
				return err
			}
			defer store.Close()

			e, err := req.Entry()
			if err != nil {
				return err
			}
			saved, err := service.Record(ctx, e)
			if err != nil {
				return err
			}

			outPrintf("%s Entry %s recorded: %s %s %s-%s (%sh)\n",
				eligibleIcon(saved.BonusEligible), saved.ID,
				saved.Operator, saved.Date, saved.Start, saved.End, saved.Hours())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Operator, "operator", "", "Operator ID")
	cmd.Flags().StringVar(&req.Machine, "machine", "", "Machine ID")
	cmd.Flags().StringVar(&req.Shift, "shift", "", "Shift label")
	cmd.Flags().StringVar(&req.Activity, "activity", string(timelog.ActivityProduction), "setup, production, repair or downtime")
	cmd.Flags().StringVar(&req.Date, "date", "", "Work date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start time HH:MM[:SS]")
	cmd.Flags().StringVar(&req.End, "end", "", "End time HH:MM[:SS]")
	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of a running API to record through")
	_ = cmd.MarkFlagRequired("operator")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func entriesReportCmd() *cobra.Command {
	var fromStr, toStr, tee string
	var week bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Worked and bonus-eligible hours per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			var from, to civil.Date
			var err error

			// Default: the current month or week
			if fromStr == "" && toStr == "" {
				today := dateutil.Today()
				from, to = dateutil.StartOfMonth(today), dateutil.EndOfMonth(today)
				if week {
					from = dateutil.StartOfWeek(today)
					to = from.AddDays(6)
				}
			} else {
				if fromStr == "" || toStr == "" {
					return fmt.Errorf("both --from and --to must be specified")
				}
				if from, err = parseDateArg(fromStr); err != nil {
					return fmt.Errorf("invalid from date: %w", err)
				}
				if to, err = parseDateArg(toStr); err != nil {
					return fmt.Errorf("invalid to date: %w", err)
				}
			}

			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}
			service, store, err := openTimelog(cfg, resolver)
			if err != nil {
				return err
			}
			defer store.Close()

			restore, err := teeOutput(tee)
			if err != nil {
				return err
			}
			defer restore()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := service.Report(ctx, from, to)
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "First date (default: start of month)")
	cmd.Flags().StringVar(&toStr, "to", "", "Last date (default: end of month)")
	cmd.Flags().BoolVar(&week, "week", false, "Report the current Monday-Sunday week")
	cmd.Flags().StringVar(&tee, "tee-output", "", "Mirror output to file")

	return cmd
}

func printReport(report *timelog.Report) {
	outPrintf("\n📊 Entries %s to %s\n", report.From, report.To)
	outPrintln("═══════════════════════════════════════════════════════")
	outPrintf("  Working days:          %d\n", report.WorkingDays)
	outPrintf("  Eligible hours:        %sh  - paid-hours denominator\n", report.EligibleHours)
	outPrintf("  Worked hours:          %sh\n", report.WorkedHours)
	outPrintf("  Eligible worked hours: %sh  - both ends inside the window\n", report.EligibleWorkedHours)

	outPrintln("\n📅 Per-day breakdown:")
	outPrintln("═══════════════════════════════════════════════════════")
	outPrintln("  Date       | Kind        | Entries | Worked | Eligible | Denominator")
	outPrintln("-------------+-------------+---------+--------+----------+------------")
	for _, day := range report.Days {
		if day.Entries == 0 && day.Kind == schedule.NonWorking {
			continue
		}
		outPrintf("  %s | %-11s | %7d | %5sh | %7sh | %sh\n",
			day.Date,
			day.Kind,
			day.Entries,
			day.WorkedHours.StringFixed(1),
			day.EligibleWorkedHours.StringFixed(1),
			day.EligibleHours)
	}
}
