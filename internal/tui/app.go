package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/internal/notify"
	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

type view int

const (
	viewIssues view = iota
	viewTime
	viewBell
	viewDetail
	viewForm
)

// liveConn reports whether the realtime link gave up reconnecting.
type liveConn interface {
	Exhausted() bool
}

// storeEventMsg carries a notification store snapshot into the runtime.
type storeEventMsg struct {
	ev notify.Event
}

// storeClosedMsg fires when the store's event channel is gone.
type storeClosedMsg struct{}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	store   *notify.Store
	conn    liveConn
	events  <-chan notify.Event
	cancel  func()
	view    view
	back    view // where esc from detail/form returns to
	issues  issuesModel
	timelog timelogModel
	bell    bellModel
	detail  detailModel
	form    formModel
	toasts  toastModel
	me      *domain.User
	version string
	width   int
	height  int
}

// NewApp creates the root TUI application.
func NewApp(c *client.Client, store *notify.Store, conn liveConn, me *domain.User, version string, pageSize int) App {
	events, cancel := store.Subscribe()
	return App{
		client:  c,
		store:   store,
		conn:    conn,
		events:  events,
		cancel:  cancel,
		issues:  newIssuesModel(c, pageSize),
		timelog: newTimelogModel(c),
		bell:    newBellModel(store),
		detail:  newDetailModel(c),
		form:    newFormModel(c),
		toasts:  newToastModel(),
		me:      me,
		version: version,
		back:    viewIssues,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.issues.Init(), a.waitForEvent())
}

// waitForEvent blocks on the store's event channel and re-arms after
// each delivery.
func (a App) waitForEvent() tea.Cmd {
	ch := a.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return storeClosedMsg{}
		}
		return storeEventMsg{ev: ev}
	}
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.cancel()
	a.store.Close()
	return a, tea.Quit
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + tabs(1) + help(1) = 3 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.issues, _ = a.issues.Update(bodyMsg)
		a.timelog, _ = a.timelog.Update(bodyMsg)
		a.bell, _ = a.bell.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		a.form, _ = a.form.Update(bodyMsg)
		a.toasts, _ = a.toasts.Update(bodyMsg)
		return a, nil

	case storeEventMsg:
		a.bell, _ = a.bell.Update(msg)
		a.bell.exhausted = a.conn.Exhausted()
		var cmd tea.Cmd
		if msg.ev.Toast != nil {
			cmd = a.toasts.push(msg.ev.Toast)
		}
		return a, tea.Batch(cmd, a.waitForEvent())

	case storeClosedMsg:
		return a, nil

	case toastSettleMsg, toastLeaveMsg, toastGoneMsg:
		var cmd tea.Cmd
		a.toasts, cmd = a.toasts.Update(msg)
		return a, cmd

	case markReadResultMsg, markAllReadResultMsg, bellStatusClearMsg:
		var cmd tea.Cmd
		a.bell, cmd = a.bell.Update(msg)
		return a, cmd

	case openIssueMsg:
		a.back = a.view
		if a.back == viewDetail || a.back == viewForm {
			a.back = viewIssues
		}
		a.view = viewDetail
		a.detail = newDetailModel(a.client)
		a.detail.loading = true
		a.detail.width = a.width
		a.detail.height = a.height
		return a, a.detail.load(msg.id)

	case editIssueMsg:
		a.back = a.view
		if a.back == viewForm {
			a.back = viewIssues
		}
		a.view = viewForm
		return a, a.form.startEdit(msg.issue)

	case formCancelMsg:
		a.view = a.back
		return a, nil

	case issueSavedMsg:
		a.form, _ = a.form.Update(msg)
		if msg.err == nil {
			a.view = a.back
			var cmd tea.Cmd
			a.issues, cmd = a.issues.Update(msg)
			if a.view == viewDetail && msg.issue != nil {
				a.detail.loading = true
				return a, tea.Batch(cmd, a.detail.load(msg.issue.ID))
			}
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a.quit()
			case "1":
				if a.view != viewIssues {
					a.view = viewIssues
					return a, a.issues.Init()
				}
				return a, nil
			case "2":
				if a.view != viewTime {
					a.view = viewTime
					return a, a.timelog.Init()
				}
				return a, nil
			case "3":
				if a.view != viewBell {
					a.view = viewBell
				}
				return a, nil
			case "n":
				if a.view != viewForm {
					a.back = a.view
					if a.back == viewDetail {
						a.back = viewIssues
					}
					a.view = viewForm
					return a, a.form.startCreate()
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a.quit()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewIssues:
		a.issues, cmd = a.issues.Update(msg)
	case viewTime:
		a.timelog, cmd = a.timelog.Update(msg)
	case viewBell:
		a.bell, cmd = a.bell.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
		if a.detail.closed {
			a.detail.closed = false
			a.view = a.back
		}
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewForm:
		return true
	case viewIssues:
		return a.issues.editing
	case viewDetail:
		return a.detail.input != inputNone
	}
	return false
}

func (a App) View() string {
	// Header: wordmark plus user identity
	header := " " + renderLogo()
	if a.version != "" {
		header += " " + metaStyle.Render(a.version)
	}
	if a.me != nil {
		header += "  " + metaStyle.Render("@"+a.me.Username+" ("+string(a.me.Role)+")")
	}
	header += "\n"

	// Tab bar with unread badge and live indicator on Notifications
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Issues", viewIssues},
		{"2", "Time", viewTime},
		{"3", "Notifications", viewBell},
	}
	active := a.view
	if active == viewDetail {
		active = viewIssues
	}
	if active == viewForm {
		active = a.back
	}
	var parts []string
	for _, t := range tabs {
		var label string
		if t.v == active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.v == viewBell {
			if a.bell.unread > 0 {
				label += " " + badgeStyle.Render(fmt.Sprintf("%d", a.bell.unread))
			}
			switch {
			case a.bell.exhausted:
				label += " " + deadDotStyle.Render("✕")
			case a.bell.connected:
				label += " " + liveDotStyle.Render("●")
			default:
				label += " " + dimStyle.Render("○")
			}
		}
		parts = append(parts, label)
	}
	tabBar := "  " + strings.Join(parts, "   ")

	var body string
	var help string
	switch a.view {
	case viewIssues:
		body = a.issues.View()
		if a.issues.editing {
			help = " " + helpEntry("enter", "search") + "  " + helpEntry("esc", "clear")
		} else {
			help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("s/p", "filter") + "  " + helpEntry("[/]", "page") + "  " + helpEntry("enter", "open") + "  " + helpEntry("n", "new") + "  " + helpEntry("q", "quit")
		}
	case viewTime:
		body = a.timelog.View()
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open issue") + "  " + helpEntry("q", "quit")
	case viewBell:
		body = a.bell.View()
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "mark read") + "  " + helpEntry("a", "mark all") + "  " + helpEntry("q", "quit")
	case viewDetail:
		body = a.detail.View()
		if a.detail.input != inputNone {
			help = " " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("m", "comment") + "  " + helpEntry("l", "log time") + "  " + helpEntry("c", "copy ref") + "  " + helpEntry("e", "edit") + "  " + helpEntry("esc", "back")
		}
	case viewForm:
		body = a.form.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("esc", "cancel")
	}

	// Toast overlay sits above the body
	if !a.toasts.empty() {
		overlay := a.toasts.View()
		body = overlay + "\n" + body
	}

	chrome := 3
	if a.height > 0 {
		body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	}

	return fmt.Sprintf("%s%s\n%s\n%s", header, tabBar, body, help)
}
