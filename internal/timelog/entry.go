package timelog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/schedule"
)

// ErrInvalidEntry is returned when a time entry fails validation
var ErrInvalidEntry = errors.New("invalid entry")

// Activity is what the operator was doing during an entry
type Activity string

const (
	ActivitySetup      Activity = "setup"
	ActivityProduction Activity = "production"
	ActivityRepair     Activity = "repair"
	ActivityDowntime   Activity = "downtime"
)

// Activities lists every known activity
var Activities = []Activity{ActivitySetup, ActivityProduction, ActivityRepair, ActivityDowntime}

// ParseActivity accepts an activity name in any case
func ParseActivity(s string) (Activity, error) {
	a := Activity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Activities {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity %q", ErrInvalidEntry, s)
}

// Entry is one logged stretch of work on a machine
type Entry struct {
	ID            uuid.UUID
	Operator      string
	Machine       string
	Shift         string
	Activity      Activity
	Date          civil.Date
	Start         civil.Time
	End           civil.Time
	BonusEligible bool
	CreatedAt     time.Time
}

// Validate checks the caller-supplied fields of an entry
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Operator) == "" {
		return fmt.Errorf("%w: operator is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.Machine) == "" {
		return fmt.Errorf("%w: machine is required", ErrInvalidEntry)
	}
	if _, err := ParseActivity(string(e.Activity)); err != nil {
		return err
	}
	if err := schedule.ValidateDate(e.Date); err != nil {
		return err
	}
	if err := schedule.ValidateWallClock(e.Start); err != nil {
		return err
	}
	if err := schedule.ValidateWallClock(e.End); err != nil {
		return err
	}
	if schedule.ClockOffset(e.End) < schedule.ClockOffset(e.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidEntry, e.End, e.Start)
	}
	return nil
}

// Hours returns the length of the entry in hours
func (e *Entry) Hours() decimal.Decimal {
	d := schedule.ClockOffset(e.End) - schedule.ClockOffset(e.Start)
	return decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(int64(time.Hour)))
}
