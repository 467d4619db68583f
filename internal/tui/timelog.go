package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

type timelogModel struct {
	client  *client.Client
	entries *domain.TimeEntryList
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

// timeEntriesMsg carries the caller's own time entries.
type timeEntriesMsg struct {
	entries *domain.TimeEntryList
	err     error
}

func newTimelogModel(c *client.Client) timelogModel {
	return timelogModel{client: c, loading: true}
}

func (m timelogModel) Init() tea.Cmd {
	return m.load()
}

func (m timelogModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		entries, err := c.MyTimeEntries(context.Background())
		return timeEntriesMsg{entries: entries, err: err}
	}
}

func (m timelogModel) Update(msg tea.Msg) (timelogModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case timeEntriesMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.entries = msg.entries
		}

	case timeLoggedMsg:
		if msg.err == nil {
			m.loading = true
			return m, m.load()
		}

	case tea.KeyMsg:
		if m.entries == nil {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.entries.TimeEntries)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			if m.cursor < len(m.entries.TimeEntries) {
				id := m.entries.TimeEntries[m.cursor].IssueID
				return m, func() tea.Msg {
					return openIssueMsg{id: id}
				}
			}
		}
	}
	return m, nil
}

func (m timelogModel) View() string {
	var b strings.Builder

	header := sectionHeaderStyle.Render("My Time")
	if m.entries != nil {
		header += "  " + metaStyle.Render(fmt.Sprintf("%.1fh total", m.entries.TotalHours))
	}
	b.WriteString(" " + header + "\n\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("failed to load time entries: "+m.err.Error()) + "\n")
		return b.String()
	}
	if m.entries == nil || len(m.entries.TimeEntries) == 0 {
		b.WriteString(" " + dimStyle.Render("no time logged yet") + "\n")
		return b.String()
	}

	for i, e := range m.entries.TimeEntries {
		hours := accentStyle.Render(fmt.Sprintf("%5.1fh", e.Hours))
		ref := metaStyle.Render(fmt.Sprintf("#%-4d", e.IssueID))
		desc := truncStr(e.Description, 46)
		day := metaStyle.Render(e.DateLogged.Format("Jan 02"))

		var row string
		if i == m.cursor {
			row = selectedRowBg.Render(fmt.Sprintf(" %s %s %s  %s", hours, ref, selectedStyle.Render(padRight(desc, 46)), day))
		} else {
			row = fmt.Sprintf(" %s %s %s  %s", hours, ref, normalStyle.Render(padRight(desc, 46)), day)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}
