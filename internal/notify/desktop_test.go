package notify

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/trackdeck/trackdeck/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestRequestPermissionGrantsWhenNotifierPresent(t *testing.T) {
	orig := lookPath
	lookPath = func(string) (string, error) { return "/usr/bin/notifier", nil }
	defer func() { lookPath = orig }()

	cfg := testConfig(t)
	a := NewDesktopAlerter(cfg, nil)
	a.RequestPermission()

	if cfg.Alerts.Permission != config.PermissionGranted {
		t.Errorf("Permission = %q, want granted", cfg.Alerts.Permission)
	}
	if !a.Granted() {
		t.Error("Granted() = false")
	}
}

func TestRequestPermissionDeniesWhenNotifierMissing(t *testing.T) {
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	defer func() { lookPath = orig }()

	cfg := testConfig(t)
	a := NewDesktopAlerter(cfg, nil)
	a.RequestPermission()

	if cfg.Alerts.Permission != config.PermissionDenied {
		t.Errorf("Permission = %q, want denied", cfg.Alerts.Permission)
	}
	if a.Granted() {
		t.Error("Granted() = true without a notifier")
	}
}

func TestRequestPermissionNeverRePrompts(t *testing.T) {
	probes := 0
	orig := lookPath
	lookPath = func(string) (string, error) { probes++; return "", errors.New("not found") }
	defer func() { lookPath = orig }()

	cfg := testConfig(t)
	cfg.Alerts.Permission = config.PermissionDenied
	a := NewDesktopAlerter(cfg, nil)
	a.RequestPermission()
	a.RequestPermission()

	if probes != 0 {
		t.Errorf("probes = %d, want 0 for an already-resolved permission", probes)
	}
}
