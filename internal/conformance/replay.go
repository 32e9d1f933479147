package conformance

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/schedule"
	"go.uber.org/zap"
)

// Result is what an implementation answers for one date and time
type Result struct {
	Kind          string
	Eligible      bool
	EligibleHours decimal.Decimal
}

// Evaluator is an implementation of the bonus window under test
type Evaluator interface {
	Check(ctx context.Context, d civil.Date, t civil.Time) (Result, error)
}

// LocalEvaluator checks vectors against an in-process resolver
type LocalEvaluator struct {
	Resolver *schedule.Resolver
}

// Check implements Evaluator
func (e LocalEvaluator) Check(_ context.Context, d civil.Date, t civil.Time) (Result, error) {
	ev, err := e.Resolver.Evaluate(d, t, t)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:          ev.Schedule.Kind.String(),
		Eligible:      ev.StartEligible,
		EligibleHours: ev.Schedule.TotalEligibleHours,
	}, nil
}

// Mismatch records a vector the implementation disagreed with
type Mismatch struct {
	Vector Vector
	Got    Result
}

func (m Mismatch) String() string {
	want := fmt.Sprintf("eligible=%t hours=%s", m.Vector.Eligible, m.Vector.EligibleHours)
	got := fmt.Sprintf("eligible=%t hours=%s", m.Got.Eligible, m.Got.EligibleHours)
	if m.Vector.Kind != "" {
		want = "kind=" + m.Vector.Kind + " " + want
		got = "kind=" + m.Got.Kind + " " + got
	}
	return fmt.Sprintf("%s %s: want %s, got %s", m.Vector.Date, m.Vector.Time, want, got)
}

// Report summarises a replay
type Report struct {
	Checked    int
	Mismatches []Mismatch
}

// OK reports whether every vector matched
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Replay runs every vector through the evaluator and collects disagreements
func Replay(ctx context.Context, ev Evaluator, vectors []Vector, logger *zap.Logger) (*Report, error) {
	report := &Report{}

	for i, v := range vectors {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		d, t, err := v.parse()
		if err != nil {
			return report, fmt.Errorf("vector %d: %w", i, err)
		}

		wantHours, err := decimal.NewFromString(v.EligibleHours)
		if err != nil {
			return report, fmt.Errorf("vector %d: invalid eligible hours %q: %w", i, v.EligibleHours, err)
		}

		got, err := ev.Check(ctx, d, t)
		if err != nil {
			return report, fmt.Errorf("vector %d (%s %s): %w", i, v.Date, v.Time, err)
		}
		report.Checked++

		// text vectors carry no kind
		kindDiffers := v.Kind != "" && got.Kind != v.Kind
		if kindDiffers || got.Eligible != v.Eligible || !got.EligibleHours.Equal(wantHours) {
			m := Mismatch{Vector: v, Got: got}
			report.Mismatches = append(report.Mismatches, m)
			logger.Warn("Conformance mismatch",
				zap.String("date", v.Date),
				zap.String("time", v.Time),
				zap.String("want_kind", v.Kind),
				zap.String("got_kind", got.Kind),
				zap.Bool("want_eligible", v.Eligible),
				zap.Bool("got_eligible", got.Eligible),
				zap.String("want_hours", v.EligibleHours),
				zap.String("got_hours", got.EligibleHours.String()))
		}
	}

	logger.Info("Conformance replay finished",
		zap.Int("checked", report.Checked),
		zap.Int("mismatches", len(report.Mismatches)))

	return report, nil
}
