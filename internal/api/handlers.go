package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

var errEntriesDisabled = errors.New("time-entry store is not configured")

// Handler holds the dependencies of the HTTP handlers
type Handler struct {
	resolver *schedule.Resolver
	holidays *calendar.HolidayCalendar
	entries  *timelog.Service // nil disables the /api/entries routes
	metrics  *Metrics
	logger   *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(resolver *schedule.Resolver, holidays *calendar.HolidayCalendar, entries *timelog.Service, metrics *Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		holidays: holidays,
		entries:  entries,
		metrics:  metrics,
		logger:   logger,
	}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// ListHolidays returns the public holidays of a year
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid year", err)
		return
	}

	set, err := h.holidays.Holidays(year)
	if err != nil {
		h.writeDomainError(w, r, "Failed to compute holidays", err)
		return
	}

	resp := HolidaysResponse{Year: year, Count: set.Len()}
	for _, hol := range set.Sorted() {
		resp.Holidays = append(resp.Holidays, toHolidayDTO(hol))
	}

	render.JSON(w, r, resp)
}

// GetSchedule returns the eligible window of a date
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	d, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid date", err)
		return
	}

	info, err := h.resolver.GetDayInfo(d.In(time.UTC))
	if err != nil {
		h.writeDomainError(w, r, "Failed to resolve schedule", err)
		return
	}

	render.JSON(w, r, toScheduleResponse(*info))
}

// CheckEligibility answers whether a wall-clock time on a date is inside the window
func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	d, t, err := parseDateTime(r, "time")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid query", err)
		return
	}

	ev, err := h.resolver.Evaluate(d, t, t)
	if err != nil {
		h.writeDomainError(w, r, "Failed to check eligibility", err)
		return
	}
	h.metrics.observeCheck(ev.Schedule.Kind.String(), ev.StartEligible)

	render.JSON(w, r, EligibilityResponse{
		Date:          d.String(),
		Time:          t.String(),
		Kind:          ev.Schedule.Kind.String(),
		Eligible:      ev.StartEligible,
		EligibleHours: ev.Schedule.TotalEligibleHours.String(),
	})
}

// CheckInterval answers whether both endpoints of an interval are inside the window
func (h *Handler) CheckInterval(w http.ResponseWriter, r *http.Request) {
	d, start, err := parseDateTime(r, "start")
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid query", err)
		return
	}
	end, err := schedule.ParseWallClock(r.URL.Query().Get("end"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid query", err)
		return
	}

	ev, err := h.resolver.Evaluate(d, start, end)
	if err != nil {
		h.writeDomainError(w, r, "Failed to check interval", err)
		return
	}
	h.metrics.observeCheck(ev.Schedule.Kind.String(), ev.Eligible)

	render.JSON(w, r, IntervalResponse{
		Date:          d.String(),
		Start:         start.String(),
		End:           end.String(),
		Kind:          ev.Schedule.Kind.String(),
		StartEligible: ev.StartEligible,
		EndEligible:   ev.EndEligible,
		Eligible:      ev.Eligible,
		EligibleHours: ev.Schedule.TotalEligibleHours.String(),
	})
}

// GetMonth returns the per-day breakdown of a month
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid month", err)
		return
	}

	info, err := h.resolver.GetMonthInfo(year, time.Month(month))
	if err != nil {
		h.writeDomainError(w, r, "Failed to build month", err)
		return
	}

	resp := MonthResponse{
		Year:          info.Year,
		Month:         int(info.Month),
		EligibleHours: info.EligibleHours.String(),
		WorkDays:      info.WorkDays,
		Saturdays:     info.Saturdays,
		Sundays:       info.Sundays,
		Holidays:      info.Holidays,
		Days:          make([]ScheduleResponse, len(info.Days)),
	}
	for i, day := range info.Days {
		resp.Days[i] = toScheduleResponse(day)
	}

	render.JSON(w, r, resp)
}

// CreateEntry records a time entry
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if h.entries == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Entries unavailable", errEntriesDisabled)
		return
	}

	var req EntryRequest
	if err := render.Bind(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := req.Entry()
	if err != nil {
		h.writeDomainError(w, r, "Invalid entry", err)
		return
	}

	saved, err := h.entries.Record(r.Context(), entry)
	if err != nil {
		h.writeDomainError(w, r, "Failed to record entry", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toEntryDTO(saved))
}

// ListEntries returns entries dated within ?from&to
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	if h.entries == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Entries unavailable", errEntriesDisabled)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid query", err)
		return
	}

	entries, err := h.entries.List(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}

	render.JSON(w, r, dtos)
}

// GetReport returns worked and eligible hours for ?from&to
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.entries == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Entries unavailable", errEntriesDisabled)
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid query", err)
		return
	}

	report, err := h.entries.Report(r.Context(), from, to)
	if err != nil {
		h.writeDomainError(w, r, "Failed to build report", err)
		return
	}

	render.JSON(w, r, toReportResponse(report))
}

func parseDateTime(r *http.Request, timeParam string) (civil.Date, civil.Time, error) {
	q := r.URL.Query()
	d, err := schedule.ParseDate(q.Get("date"))
	if err != nil {
		return civil.Date{}, civil.Time{}, err
	}
	t, err := schedule.ParseWallClock(q.Get(timeParam))
	if err != nil {
		return civil.Date{}, civil.Time{}, err
	}
	return d, t, nil
}

func parseRange(r *http.Request) (civil.Date, civil.Date, error) {
	q := r.URL.Query()
	from, err := schedule.ParseDate(q.Get("from"))
	if err != nil {
		return civil.Date{}, civil.Date{}, fmt.Errorf("from: %w", err)
	}
	to, err := schedule.ParseDate(q.Get("to"))
	if err != nil {
		return civil.Date{}, civil.Date{}, fmt.Errorf("to: %w", err)
	}
	return from, to, nil
}

// writeDomainError maps validation failures to 400 and everything else to 500
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := http.StatusInternalServerError
	if schedule.IsValidationError(err) || errors.Is(err, timelog.ErrInvalidEntry) {
		status = http.StatusBadRequest
	}
	h.writeError(w, r, status, message, err)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(message,
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
