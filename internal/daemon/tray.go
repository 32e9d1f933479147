//go:build windows

package daemon

import (
	_ "embed"
	"sync"

	"fyne.io/systray"
	"go.uber.org/zap"
)

//go:embed icon.ico
var clockIcon []byte

// TrayApp mirrors the watcher state in the Windows notification area.
// The disabled status item always shows the last observed status line.
type TrayApp struct {
	daemon   *Daemon
	logger   *zap.Logger
	status   *systray.MenuItem
	stopOnce sync.Once
	quit     chan struct{}
}

// NewTrayApp creates the tray for d
func NewTrayApp(d *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{daemon: d, logger: logger, quit: make(chan struct{})}, nil
}

// Run blocks until the tray is quit
func (t *TrayApp) Run() {
	systray.Run(t.onReady, func() { t.logger.Info("System tray exited") })
}

func (t *TrayApp) onReady() {
	systray.SetIcon(clockIcon)
	systray.SetTitle("BH")
	systray.SetTooltip("Bonus hours watcher")

	t.status = systray.AddMenuItem("Waiting for first check", "")
	t.status.Disable()
	systray.AddSeparator()
	recheck := systray.AddMenuItem("Check now", "Re-evaluate the bonus window")
	quit := systray.AddMenuItem("Quit", "Stop watching")

	go t.daemon.runLoop()

	go func() {
		for {
			select {
			case <-recheck.ClickedCh:
				go t.daemon.CheckNow()
			case <-quit.ClickedCh:
				t.logger.Info("Quit requested from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

// Stop closes the tray; safe to call more than once
func (t *TrayApp) Stop() {
	t.stopOnce.Do(func() { close(t.quit) })
}

// Update shows whether the window is open in the title, tooltip and status item
func (t *TrayApp) Update(st Status) {
	title := "BH closed"
	if st.Eligible {
		title = "BH open"
	}
	systray.SetTitle(title)
	systray.SetTooltip(st.Message())
	if t.status != nil {
		t.status.SetTitle(st.Message() + " [" + st.Schedule.String() + "]")
	}
}

// Failed surfaces a check error in the tray
func (t *TrayApp) Failed(err error) {
	systray.SetTitle("BH error")
	systray.SetTooltip("Check failed: " + err.Error())
}
