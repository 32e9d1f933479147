package api

import (
	"net/http"
	"time"

	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/timelog"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HolidayDTO is one public holiday
type HolidayDTO struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Name    string `json:"name"`
	Rule    string `json:"rule"`
}

// HolidaysResponse lists the holidays of a year in date order
type HolidaysResponse struct {
	Year     int          `json:"year"`
	Count    int          `json:"count"`
	Holidays []HolidayDTO `json:"holidays"`
}

// ScheduleResponse describes the eligible window of a date
type ScheduleResponse struct {
	Date          string `json:"date"`
	Weekday       string `json:"weekday"`
	Kind          string `json:"kind"`
	Working       bool   `json:"working"`
	WindowStart   string `json:"window_start,omitempty"`
	WindowEnd     string `json:"window_end,omitempty"`
	EligibleHours string `json:"eligible_hours"`
	Holiday       string `json:"holiday,omitempty"`
}

// EligibilityResponse answers whether one instant is eligible
type EligibilityResponse struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	Kind          string `json:"kind"`
	Eligible      bool   `json:"eligible"`
	EligibleHours string `json:"eligible_hours"`
}

// IntervalResponse answers whether both endpoints of an interval are eligible
type IntervalResponse struct {
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Kind          string `json:"kind"`
	StartEligible bool   `json:"start_eligible"`
	EndEligible   bool   `json:"end_eligible"`
	Eligible      bool   `json:"eligible"`
	EligibleHours string `json:"eligible_hours"`
}

// MonthResponse is the per-day breakdown of a month
type MonthResponse struct {
	Year          int                `json:"year"`
	Month         int                `json:"month"`
	EligibleHours string             `json:"eligible_hours"`
	WorkDays      int                `json:"work_days"`
	Saturdays     int                `json:"saturdays"`
	Sundays       int                `json:"sundays"`
	Holidays      int                `json:"holidays"`
	Days          []ScheduleResponse `json:"days"`
}

// EntryRequest is the body of POST /api/entries
type EntryRequest struct {
	Operator string `json:"operator"`
	Machine  string `json:"machine"`
	Shift    string `json:"shift"`
	Activity string `json:"activity"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
}

// Bind implements render.Binder
func (req *EntryRequest) Bind(_ *http.Request) error {
	return nil
}

// Entry converts the request into a time entry, parsing dates and times
func (req *EntryRequest) Entry() (timelog.Entry, error) {
	activity, err := timelog.ParseActivity(req.Activity)
	if err != nil {
		return timelog.Entry{}, err
	}
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return timelog.Entry{}, err
	}
	start, err := schedule.ParseWallClock(req.Start)
	if err != nil {
		return timelog.Entry{}, err
	}
	end, err := schedule.ParseWallClock(req.End)
	if err != nil {
		return timelog.Entry{}, err
	}

	return timelog.Entry{
		Operator: req.Operator,
		Machine:  req.Machine,
		Shift:    req.Shift,
		Activity: activity,
		Date:     date,
		Start:    start,
		End:      end,
	}, nil
}

// EntryDTO is a stored time entry
type EntryDTO struct {
	ID            string `json:"id"`
	Operator      string `json:"operator"`
	Machine       string `json:"machine"`
	Shift         string `json:"shift,omitempty"`
	Activity      string `json:"activity"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Hours         string `json:"hours"`
	BonusEligible bool   `json:"bonus_eligible"`
	CreatedAt     string `json:"created_at"`
}

// DayReportDTO is one row of an entries report
type DayReportDTO struct {
	Date                string `json:"date"`
	Kind                string `json:"kind"`
	Entries             int    `json:"entries"`
	WorkedHours         string `json:"worked_hours"`
	EligibleWorkedHours string `json:"eligible_worked_hours"`
	EligibleHours       string `json:"eligible_hours"`
}

// ReportResponse summarises entries over a date range
type ReportResponse struct {
	From                string         `json:"from"`
	To                  string         `json:"to"`
	WorkedHours         string         `json:"worked_hours"`
	EligibleWorkedHours string         `json:"eligible_worked_hours"`
	EligibleHours       string         `json:"eligible_hours"`
	WorkingDays         int            `json:"working_days"`
	Days                []DayReportDTO `json:"days"`
}

func toHolidayDTO(h calendar.Holiday) HolidayDTO {
	return HolidayDTO{
		Date:    h.Date.String(),
		Weekday: calendar.Weekday(h.Date).String(),
		Name:    h.Name,
		Rule:    h.Rule.String(),
	}
}

func toScheduleResponse(info schedule.DayInfo) ScheduleResponse {
	resp := ScheduleResponse{
		Date:          info.Date.String(),
		Weekday:       info.Weekday.String(),
		Kind:          info.Schedule.Kind.String(),
		Working:       info.IsWorkday,
		EligibleHours: info.EligibleHours.String(),
		Holiday:       info.Holiday,
	}
	if info.IsWorkday {
		resp.WindowStart = info.Schedule.WindowStart.String()
		resp.WindowEnd = info.Schedule.WindowEnd.String()
	}
	return resp
}

func toEntryDTO(e timelog.Entry) EntryDTO {
	return EntryDTO{
		ID:            e.ID.String(),
		Operator:      e.Operator,
		Machine:       e.Machine,
		Shift:         e.Shift,
		Activity:      string(e.Activity),
		Date:          e.Date.String(),
		Start:         e.Start.String(),
		End:           e.End.String(),
		Hours:         e.Hours().String(),
		BonusEligible: e.BonusEligible,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

func toReportResponse(r *timelog.Report) ReportResponse {
	resp := ReportResponse{
		From:                r.From.String(),
		To:                  r.To.String(),
		WorkedHours:         r.WorkedHours.String(),
		EligibleWorkedHours: r.EligibleWorkedHours.String(),
		EligibleHours:       r.EligibleHours.String(),
		WorkingDays:         r.WorkingDays,
		Days:                make([]DayReportDTO, len(r.Days)),
	}
	for i, d := range r.Days {
		resp.Days[i] = DayReportDTO{
			Date:                d.Date.String(),
			Kind:                d.Kind.String(),
			Entries:             d.Entries,
			WorkedHours:         d.WorkedHours.String(),
			EligibleWorkedHours: d.EligibleWorkedHours.String(),
			EligibleHours:       d.EligibleHours.String(),
		}
	}
	return resp
}
