// Package apiclient talks to a running bonus-hours API.
//
// Client implements conformance.Evaluator, so golden vectors can be
// replayed against a remote deployment.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/username/bonus-hours/internal/api"
	"github.com/username/bonus-hours/internal/conformance"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
)

// APIError is a non-2xx reply from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("API request failed with status %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// retryable reports whether the server might succeed on a later attempt
func (e *APIError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// Client represents a bonus-hours API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	retryDelay time.Duration
}

var _ conformance.Evaluator = (*Client)(nil)

// NewClient creates a new API client
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retryDelay: time.Second,
	}
}

// Holidays returns the public holidays of a year
func (c *Client) Holidays(ctx context.Context, year int) (*api.HolidaysResponse, error) {
	var resp api.HolidaysResponse
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/holidays/%d", year), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get holidays for %d: %w", year, err)
	}
	return &resp, nil
}

// Schedule returns the eligible window of a date
func (c *Client) Schedule(ctx context.Context, d civil.Date) (*api.ScheduleResponse, error) {
	var resp api.ScheduleResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/schedule/"+d.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get schedule for %s: %w", d, err)
	}
	return &resp, nil
}

// Eligibility checks one wall-clock time on a date
func (c *Client) Eligibility(ctx context.Context, d civil.Date, t civil.Time) (*api.EligibilityResponse, error) {
	q := url.Values{}
	q.Set("date", d.String())
	q.Set("time", t.String())

	var resp api.EligibilityResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/eligibility?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to check %s %s: %w", d, t, err)
	}
	return &resp, nil
}

// Interval checks both endpoints of an interval on a date
func (c *Client) Interval(ctx context.Context, d civil.Date, start, end civil.Time) (*api.IntervalResponse, error) {
	q := url.Values{}
	q.Set("date", d.String())
	q.Set("start", start.String())
	q.Set("end", end.String())

	var resp api.IntervalResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/eligibility/interval?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to check interval %s %s-%s: %w", d, start, end, err)
	}
	return &resp, nil
}

// Month returns the per-day breakdown of a month
func (c *Client) Month(ctx context.Context, year int, month time.Month) (*api.MonthResponse, error) {
	var resp api.MonthResponse
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/months/%d/%d", year, int(month)), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get month %d-%02d: %w", year, int(month), err)
	}
	return &resp, nil
}

// CreateEntry records a time entry
func (c *Client) CreateEntry(ctx context.Context, req api.EntryRequest) (*api.EntryDTO, error) {
	var entry api.EntryDTO
	if err := c.doRequest(ctx, http.MethodPost, "/api/entries", req, &entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	c.logger.Info("Entry created",
		zap.String("id", entry.ID),
		zap.String("operator", entry.Operator),
		zap.Bool("bonus_eligible", entry.BonusEligible))

	return &entry, nil
}

// Report returns worked and eligible hours for [from, to]
func (c *Client) Report(ctx context.Context, from, to civil.Date) (*api.ReportResponse, error) {
	q := url.Values{}
	q.Set("from", from.String())
	q.Set("to", to.String())

	var resp api.ReportResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/entries/report?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &resp, nil
}

// Check implements conformance.Evaluator
func (c *Client) Check(ctx context.Context, d civil.Date, t civil.Time) (conformance.Result, error) {
	resp, err := c.Eligibility(ctx, d, t)
	if err != nil {
		return conformance.Result{}, err
	}

	hours, err := decimal.NewFromString(resp.EligibleHours)
	if err != nil {
		return conformance.Result{}, fmt.Errorf("invalid eligible_hours %q: %w", resp.EligibleHours, err)
	}

	return conformance.Result{
		Kind:          resp.Kind,
		Eligible:      resp.Eligible,
		EligibleHours: hours,
	}, nil
}

// doRequest performs an HTTP request, retrying transport errors and 5xx replies
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = jsonData
	}

	endpoint := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= defaultRetries; attempt++ {
		err := c.doRequestOnce(ctx, method, endpoint, payload, result)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}

		lastErr = err
		c.logger.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", defaultRetries),
			zap.Error(err))

		if attempt < defaultRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", defaultRetries, lastErr)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, method, endpoint string, payload []byte, result interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errBody api.ErrorResponse
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Details = errBody.Details
		}
		return apiErr
	}

	// Parse response
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
