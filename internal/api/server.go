// Package api exposes the holiday calendar, the eligibility checks and the
// time-entry log over HTTP.
//
// Routes:
//
//	GET  /api/holidays/{year}
//	GET  /api/schedule/{date}
//	GET  /api/eligibility?date=YYYY-MM-DD&time=HH:MM:SS
//	GET  /api/eligibility/interval?date=...&start=...&end=...
//	GET  /api/months/{year}/{month}
//	POST /api/entries
//	GET  /api/entries?from=...&to=...
//	GET  /api/entries/report?from=...&to=...
//	GET  /healthz
//	GET  /metrics
//
// Errors are JSON {"error", "details"}: 400 for bad input, 500 otherwise.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, allowedOrigins []string, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/holidays/{year}", h.ListHolidays)
		r.Get("/schedule/{date}", h.GetSchedule)
		r.Get("/months/{year}/{month}", h.GetMonth)

		r.Route("/eligibility", func(r chi.Router) {
			r.Get("/", h.CheckEligibility)
			r.Get("/interval", h.CheckInterval)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Get("/report", h.GetReport)
		})
	})

	return r
}

// requestLogger logs one structured line per request
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("Request served",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully
func Serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
