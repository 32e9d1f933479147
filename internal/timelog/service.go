package timelog

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rickar/cal/v2"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/pkg/dateutil"
	"go.uber.org/zap"
)

// MaxRangeDays bounds the number of days a List or Report may span
const MaxRangeDays = 366

// Store persists time entries
type Store interface {
	SaveEntry(ctx context.Context, e Entry) error
	ListEntries(ctx context.Context, from, to civil.Date) ([]Entry, error)
}

// Service records time entries and reports eligible hours
type Service struct {
	store    Store
	resolver *schedule.Resolver
	business *cal.BusinessCalendar
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new time-entry service
func NewService(store Store, resolver *schedule.Resolver, business *cal.BusinessCalendar, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		business: business,
		logger:   logger,
		now:      time.Now,
	}
}

// Record validates an entry, flags whether it is bonus eligible and stores it.
// ID, BonusEligible and CreatedAt are assigned here.
func (s *Service) Record(ctx context.Context, e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}

	eligible, err := s.resolver.IsIntervalEligible(e.Date, e.Start, e.End)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to evaluate entry: %w", err)
	}

	e.ID = uuid.New()
	e.BonusEligible = eligible
	e.CreatedAt = s.now().UTC()

	if err := s.store.SaveEntry(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("failed to save entry: %w", err)
	}

	s.logger.Info("Entry recorded",
		zap.String("id", e.ID.String()),
		zap.String("operator", e.Operator),
		zap.String("machine", e.Machine),
		zap.String("activity", string(e.Activity)),
		zap.String("date", e.Date.String()),
		zap.String("start", e.Start.String()),
		zap.String("end", e.End.String()),
		zap.Bool("bonus_eligible", e.BonusEligible))

	return e, nil
}

// List returns the stored entries dated within [from, to]
func (s *Service) List(ctx context.Context, from, to civil.Date) ([]Entry, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// DayReport summarises one calendar day
type DayReport struct {
	Date                civil.Date
	Kind                schedule.DayKind
	Entries             int
	WorkedHours         decimal.Decimal
	EligibleWorkedHours decimal.Decimal
	EligibleHours       decimal.Decimal // the day's paid-hours denominator
}

// Report summarises a date range
type Report struct {
	From                civil.Date
	To                  civil.Date
	Days                []DayReport
	WorkedHours         decimal.Decimal
	EligibleWorkedHours decimal.Decimal
	EligibleHours       decimal.Decimal
	WorkingDays         int
}

// Report builds per-day worked and eligible hours for [from, to]
func (s *Service) Report(ctx context.Context, from, to civil.Date) (*Report, error) {
	entries, err := s.List(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[civil.Date][]Entry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	report := &Report{
		From:                from,
		To:                  to,
		WorkedHours:         decimal.Zero,
		EligibleWorkedHours: decimal.Zero,
		EligibleHours:       decimal.Zero,
		WorkingDays:         s.business.WorkdaysInRange(from.In(time.UTC), to.In(time.UTC)),
	}

	for _, d := range dateutil.Days(from, to) {
		ds, err := s.resolver.ResolveDaySchedule(d)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", d, err)
		}

		day := DayReport{
			Date:                d,
			Kind:                ds.Kind,
			Entries:             len(byDate[d]),
			WorkedHours:         decimal.Zero,
			EligibleWorkedHours: decimal.Zero,
			EligibleHours:       ds.TotalEligibleHours,
		}
		for _, e := range byDate[d] {
			hours := e.Hours()
			day.WorkedHours = day.WorkedHours.Add(hours)
			if e.BonusEligible {
				day.EligibleWorkedHours = day.EligibleWorkedHours.Add(hours)
			}
		}

		report.Days = append(report.Days, day)
		report.WorkedHours = report.WorkedHours.Add(day.WorkedHours)
		report.EligibleWorkedHours = report.EligibleWorkedHours.Add(day.EligibleWorkedHours)
		report.EligibleHours = report.EligibleHours.Add(day.EligibleHours)
	}

	s.logger.Info("Report built",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int("entries", len(entries)),
		zap.Int("working_days", report.WorkingDays),
		zap.String("eligible_hours", report.EligibleHours.String()))

	return report, nil
}

func checkRange(from, to civil.Date) error {
	if err := schedule.ValidateDate(from); err != nil {
		return err
	}
	if err := schedule.ValidateDate(to); err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("%w: range end %s is before start %s", ErrInvalidEntry, to, from)
	}
	if days := to.DaysSince(from) + 1; days > MaxRangeDays {
		return fmt.Errorf("%w: range spans %d days, at most %d allowed", ErrInvalidEntry, days, MaxRangeDays)
	}
	return nil
}
