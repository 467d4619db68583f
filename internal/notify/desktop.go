package notify

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/trackdeck/trackdeck/internal/config"
)

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// DesktopAlerter shows OS-level notifications through the host's
// notification command. The permission state lives in the config file so
// a grant or denial survives restarts and is never re-prompted.
type DesktopAlerter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewDesktopAlerter creates an alerter backed by the given config.
func NewDesktopAlerter(cfg *config.Config, logger *slog.Logger) *DesktopAlerter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DesktopAlerter{cfg: cfg, logger: logger}
}

// notifierCommand returns the notification binary for the current OS.
func notifierCommand() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "osascript", nil
	case "linux":
		return "notify-send", nil
	case "windows":
		return "powershell", nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// RequestPermission resolves the permission state exactly once: it
// probes for the host notifier binary and persists granted or denied.
// A previously resolved state makes this a no-op.
func (a *DesktopAlerter) RequestPermission() {
	if a.cfg.Alerts.Permission != config.PermissionUnset {
		return
	}

	name, err := notifierCommand()
	if err == nil {
		_, err = lookPath(name)
	}
	if err != nil {
		a.cfg.Alerts.Permission = config.PermissionDenied
		a.logger.Info("desktop alerts unavailable, falling back to toasts", "err", err)
	} else {
		a.cfg.Alerts.Permission = config.PermissionGranted
	}
	if saveErr := a.cfg.Save(); saveErr != nil {
		a.logger.Warn("could not persist alert permission", "err", saveErr)
	}
}

// Granted reports whether OS-level alerts may be shown.
func (a *DesktopAlerter) Granted() bool {
	return a.cfg.Alerts.Permission == config.PermissionGranted
}

// Alert shows a desktop notification. Delivery is best-effort: failures
// are logged and the in-app toast remains the fallback surface.
func (a *DesktopAlerter) Alert(title, message string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", message, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", "--app-name=trackdeck", title, message)
	case "windows":
		script := fmt.Sprintf("New-BurntToastNotification -Text %q, %q", title, message)
		cmd = exec.Command("powershell", "-NoProfile", "-Command", script)
	default:
		return
	}
	if err := cmd.Start(); err != nil {
		a.logger.Warn("desktop alert failed", "err", err)
	}
}
