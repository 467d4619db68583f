package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/internal/notify"
	"github.com/trackdeck/trackdeck/pkg/domain"
	"github.com/trackdeck/trackdeck/pkg/realtime"
)

var errTest = errors.New("boom")

type stubNotifyClient struct{}

func (stubNotifyClient) ListNotifications(context.Context) (*domain.NotificationList, error) {
	return &domain.NotificationList{}, nil
}

func (stubNotifyClient) MarkNotificationRead(_ context.Context, id int64) (*domain.Notification, error) {
	return &domain.Notification{ID: id, IsRead: true}, nil
}

func (stubNotifyClient) MarkAllNotificationsRead(context.Context) error { return nil }

type stubConn struct{ exhausted bool }

func (s *stubConn) Exhausted() bool { return s.exhausted }

type idleConn struct {
	msgs chan realtime.Message
	sts  chan bool
}

func newIdleConn() *idleConn {
	return &idleConn{msgs: make(chan realtime.Message), sts: make(chan bool)}
}

func (c *idleConn) Connect(int64)                     {}
func (c *idleConn) Disconnect()                       {}
func (c *idleConn) Messages() <-chan realtime.Message { return c.msgs }
func (c *idleConn) Status() <-chan bool               { return c.sts }

func newTestApp() (App, *stubConn) {
	store := notify.NewStore(stubNotifyClient{}, newIdleConn(), noAlerts{}, nil)
	conn := &stubConn{}
	a := NewApp(nil, store, conn, &domain.User{Username: "dana", Role: domain.RoleDeveloper}, "v1.0.0", 20)
	a.width = 100
	a.height = 30
	a.issues.loading = false
	return a, conn
}

type noAlerts struct{}

func (noAlerts) RequestPermission()   {}
func (noAlerts) Granted() bool        { return false }
func (noAlerts) Alert(string, string) {}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"2", viewTime},
		{"3", viewBell},
		{"1", viewIssues},
	}
	app, _ := newTestApp()
	app.view = viewTime // so pressing 1 has an effect in the last case
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tc.key)})
			app = model.(App)
			if app.view != tc.wantView {
				t.Errorf("after key %q: view = %d, want %d", tc.key, app.view, tc.wantView)
			}
		})
	}
}

func TestAppStoreEventUpdatesBellAndToast(t *testing.T) {
	app, _ := newTestApp()
	n := domain.Notification{ID: 1, Title: "Assigned to you", IsRead: false}
	model, cmd := app.Update(storeEventMsg{ev: notify.Event{
		Notifications: []domain.Notification{n},
		UnreadCount:   1,
		Connected:     true,
		Toast:         &n,
	}})
	app = model.(App)

	if app.bell.unread != 1 {
		t.Errorf("bell.unread = %d, want 1", app.bell.unread)
	}
	if !app.bell.connected {
		t.Error("bell should be connected")
	}
	if app.toasts.empty() {
		t.Error("toast event should push a toast")
	}
	if cmd == nil {
		t.Error("store event should re-arm the event wait")
	}
	if !strings.Contains(app.View(), "Assigned to you") {
		t.Error("toast overlay should appear in the view")
	}
}

func TestAppExhaustedFlagReachesBell(t *testing.T) {
	app, conn := newTestApp()
	conn.exhausted = true
	model, _ := app.Update(storeEventMsg{ev: notify.Event{Connected: false}})
	app = model.(App)
	if !app.bell.exhausted {
		t.Error("exhausted connection state should flow into the bell view")
	}
}

func TestAppUnreadBadgeInTabBar(t *testing.T) {
	app, _ := newTestApp()
	model, _ := app.Update(storeEventMsg{ev: notify.Event{
		Notifications: []domain.Notification{{ID: 1}},
		UnreadCount:   12,
		Connected:     true,
	}})
	app = model.(App)
	if !strings.Contains(app.View(), "12") {
		t.Error("expected unread badge in tab bar")
	}
}

func TestAppOpenIssueSwitchesToDetail(t *testing.T) {
	app, _ := newTestApp()
	model, cmd := app.Update(openIssueMsg{id: 5})
	app = model.(App)
	if app.view != viewDetail {
		t.Errorf("view = %d, want detail", app.view)
	}
	if cmd == nil {
		t.Error("opening an issue should load it")
	}
	if app.back != viewIssues {
		t.Errorf("back = %d, want issues", app.back)
	}
}

func TestAppFormCancelReturns(t *testing.T) {
	app, _ := newTestApp()
	app.view = viewForm
	app.back = viewTime
	model, _ := app.Update(formCancelMsg{})
	app = model.(App)
	if app.view != viewTime {
		t.Errorf("view = %d, want time tab after cancel", app.view)
	}
}

func TestAppQuitClosesStore(t *testing.T) {
	app, _ := newTestApp()
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if cmd() != tea.Quit() {
		t.Errorf("expected tea.Quit, got %v", cmd())
	}
}

func TestAppHeaderShowsUser(t *testing.T) {
	app, _ := newTestApp()
	view := app.View()
	if !strings.Contains(view, "@dana") {
		t.Error("expected username in header")
	}
	if !strings.Contains(view, "v1.0.0") {
		t.Error("expected version in header")
	}
}
