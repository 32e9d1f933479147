package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bonus-hours/internal/api"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/conformance"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/store/sqlite"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	store, err := sqlite.New(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	entries := timelog.NewService(store, schedule.Default(), calendar.Default().BusinessCalendar(), zap.NewNop())
	reg := prometheus.NewRegistry()
	h := api.NewHandler(schedule.Default(), calendar.Default(), entries, api.NewMetrics(reg), zap.NewNop())

	srv := httptest.NewServer(api.NewRouter(h, []string{"*"}, reg))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", zap.NewNop())
	c.retryDelay = time.Millisecond
	return c
}

func TestClient_Holidays(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 17, resp.Count)
}

func TestClient_ScheduleAndInterval(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	sat := civil.Date{Year: 2024, Month: time.March, Day: 9}

	s, err := c.Schedule(ctx, sat)
	require.NoError(t, err)
	assert.Equal(t, "saturday", s.Kind)
	assert.Equal(t, "12:00:00", s.WindowEnd)

	iv, err := c.Interval(ctx, sat, civil.Time{Hour: 8}, civil.Time{Hour: 12})
	require.NoError(t, err)
	assert.True(t, iv.Eligible)

	month, err := c.Month(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "164", month.EligibleHours)
}

func TestClient_Entries(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	entry, err := c.CreateEntry(ctx, api.EntryRequest{
		Operator: "op-3",
		Machine:  "MILL-1",
		Activity: "repair",
		Date:     "2024-03-09",
		Start:    "08:30",
		End:      "12:30",
	})
	require.NoError(t, err)
	assert.False(t, entry.BonusEligible)

	report, err := c.Report(ctx, civil.Date{Year: 2024, Month: time.March, Day: 9}, civil.Date{Year: 2024, Month: time.March, Day: 9})
	require.NoError(t, err)
	assert.Equal(t, "4", report.WorkedHours)
	assert.Equal(t, "0", report.EligibleWorkedHours)
}

func TestClient_ValidationErrorIsNotRetried(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Holidays(context.Background(), 0)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Details)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"date":"2024-03-04","time":"08:00:00","kind":"weekday","eligible":true,"eligible_hours":"8"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	c.retryDelay = time.Millisecond

	res, err := c.Check(context.Background(), civil.Date{Year: 2024, Month: time.March, Day: 4}, civil.Time{Hour: 8})
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.Equal(t, "8", res.EligibleHours.String())
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	c.retryDelay = time.Millisecond

	_, err := c.Holidays(context.Background(), 2024)
	assert.ErrorContains(t, err, "after 3 attempts")
}

func TestClient_ReplaysVectors(t *testing.T) {
	c := newTestClient(t)

	vectors, err := conformance.Generate(schedule.Default(), conformance.Options{
		FromYear:      2024,
		ToYear:        2024,
		SamplesPerDay: 1,
		DaysPerYear:   10,
		Seed:          3,
	})
	require.NoError(t, err)

	report, err := conformance.Replay(context.Background(), c, vectors, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, report.OK(), "mismatches: %v", report.Mismatches)
	assert.Equal(t, len(vectors), report.Checked)
}
