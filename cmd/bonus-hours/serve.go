package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/username/bonus-hours/internal/api"
	"github.com/username/bonus-hours/internal/calendar"
	"github.com/username/bonus-hours/internal/config"
	"github.com/username/bonus-hours/internal/daemon"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/internal/store/sqlite"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			service, store, err := openTimelog(cfg, resolver)
			if err != nil {
				return err
			}
			defer store.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			h := api.NewHandler(resolver, calendar.Default(), service, api.NewMetrics(reg), logger)
			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      api.NewRouter(h, cfg.Server.AllowedOrigins, reg),
				ReadTimeout:  cfg.Server.GetReadTimeout(),
				WriteTimeout: cfg.Server.GetWriteTimeout(),
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outPrintf("🚀 Serving on %s\n", cfg.Server.Addr)
			return api.Serve(ctx, srv, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")

	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the clock and log when the bonus window opens or closes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := loadResolver()
			if err != nil {
				return err
			}

			d := daemon.NewDaemon(resolver, cfg.Daemon.GetCheckInterval(), cfg.Daemon.SystemTray, logger)

			logger.Info("Starting watcher",
				zap.Duration("check_interval", cfg.Daemon.GetCheckInterval()),
				zap.Bool("system_tray", cfg.Daemon.SystemTray))

			return d.Start()
		},
	}
}

func openTimelog(cfg *config.Config, resolver *schedule.Resolver) (*timelog.Service, *sqlite.Store, error) {
	store, err := sqlite.New(cfg.Store.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	return timelog.NewService(store, resolver, calendar.Default().BusinessCalendar(), logger), store, nil
}
