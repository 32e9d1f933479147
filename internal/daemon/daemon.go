package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/civil"
	"github.com/username/bonus-hours/internal/schedule"
	"github.com/username/bonus-hours/pkg/dateutil"
	"go.uber.org/zap"
)

// Status is the eligibility of one observed instant
type Status struct {
	Time     time.Time
	Date     civil.Date
	Clock    civil.Time
	Schedule schedule.DaySchedule
	Eligible bool
}

// Message returns a one-line human summary of the status
func (s Status) Message() string {
	switch {
	case !s.Schedule.Working():
		return fmt.Sprintf("%s: no bonus window today", s.Date)
	case s.Eligible:
		return fmt.Sprintf("%s: bonus window open until %s", s.Date, s.Schedule.WindowEnd)
	case schedule.ClockOffset(s.Clock) < schedule.ClockOffset(s.Schedule.WindowStart):
		return fmt.Sprintf("%s: bonus window opens at %s", s.Date, s.Schedule.WindowStart)
	default:
		return fmt.Sprintf("%s: bonus window closed at %s", s.Date, s.Schedule.WindowEnd)
	}
}

// Daemon watches the wall clock and reports when the bonus window opens or closes
type Daemon struct {
	resolver      *schedule.Resolver
	checkInterval time.Duration
	systemTray    bool // Show system tray icon
	logger        *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
	trayApp       *TrayApp
	now           func() time.Time
	mu            sync.Mutex
	last          *Status
	transitions   int
}

// NewDaemon creates a new watcher
func NewDaemon(resolver *schedule.Resolver, checkInterval time.Duration, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		resolver:      resolver,
		checkInterval: checkInterval,
		systemTray:    systemTray,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		now:           time.Now,
	}
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			d.runLoop()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	d.runLoop()
	return nil
}

// runLoop checks eligibility every interval until stopped (called from tray or standalone)
func (d *Daemon) runLoop() {
	d.logger.Info("Watcher started",
		zap.Duration("check_interval", d.checkInterval))

	d.runCheck()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(d.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Watcher stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return

		case <-ticker.C:
			d.runCheck()
		}
	}
}

// RunWithTimeout runs the watch loop for at most timeout
func (d *Daemon) RunWithTimeout(timeout time.Duration) error {
	d.logger.Info("Watcher started with timeout",
		zap.Duration("timeout", timeout),
		zap.Duration("check_interval", d.checkInterval))

	timeoutCtx, timeoutCancel := context.WithTimeout(d.ctx, timeout)
	defer timeoutCancel()

	d.runCheck()

	ticker := time.NewTicker(d.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeoutCtx.Done():
			d.logger.Info("Watcher stopped (timeout reached)")
			return nil

		case <-ticker.C:
			d.runCheck()
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) runCheck() {
	if _, _, err := d.Check(); err != nil {
		d.logger.Error("Eligibility check failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.Failed(err)
		}
	}
}

// Check evaluates the current instant and reports whether the window state changed
// since the previous check. A new day always counts as a change.
func (d *Daemon) Check() (Status, bool, error) {
	now := d.now()
	date, clock := dateutil.Split(now)

	ev, err := d.resolver.Evaluate(date, clock, clock)
	if err != nil {
		return Status{}, false, fmt.Errorf("failed to evaluate %s %s: %w", date, clock, err)
	}

	st := Status{
		Time:     now,
		Date:     date,
		Clock:    clock,
		Schedule: ev.Schedule,
		Eligible: ev.StartEligible,
	}

	d.mu.Lock()
	prev := d.last
	d.last = &st
	changed := prev == nil || prev.Eligible != st.Eligible || prev.Date != st.Date
	if changed && prev != nil {
		d.transitions++
	}
	d.mu.Unlock()

	switch {
	case prev == nil:
		d.logger.Info("Initial bonus window state",
			zap.String("date", date.String()),
			zap.String("schedule", st.Schedule.String()),
			zap.Bool("eligible", st.Eligible))
	case prev.Eligible != st.Eligible && st.Eligible:
		d.logger.Info("Bonus window opened",
			zap.String("date", date.String()),
			zap.String("time", clock.String()),
			zap.String("closes_at", st.Schedule.WindowEnd.String()))
	case prev.Eligible != st.Eligible:
		d.logger.Info("Bonus window closed",
			zap.String("date", date.String()),
			zap.String("time", clock.String()))
	case prev.Date != st.Date:
		d.logger.Info("New day",
			zap.String("date", date.String()),
			zap.String("schedule", st.Schedule.String()))
	default:
		d.logger.Debug("Bonus window unchanged",
			zap.String("time", clock.String()),
			zap.Bool("eligible", st.Eligible))
	}

	if changed && d.trayApp != nil {
		d.trayApp.Update(st)
	}

	return st, changed, nil
}

// GetStatus returns the last observed status, if any
func (d *Daemon) GetStatus() (Status, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.last == nil {
		return Status{}, false
	}
	return *d.last, true
}

// Transitions returns how many state changes were observed after the first check
func (d *Daemon) Transitions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transitions
}

// CheckNow triggers an immediate check (called from tray menu)
func (d *Daemon) CheckNow() {
	d.logger.Info("Manual check triggered from tray")
	st, _, err := d.Check()
	if err != nil {
		d.logger.Error("Manual check failed", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.Failed(err)
		}
		return
	}
	if d.trayApp != nil {
		d.trayApp.Update(st)
	}
}
