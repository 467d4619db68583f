package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

type detailInput int

const (
	inputNone detailInput = iota
	inputComment
	inputHours
)

type detailModel struct {
	client    *client.Client
	issue     *domain.Issue
	entries   *domain.TimeEntryList
	input     detailInput
	draft     string
	loading   bool
	closed    bool
	err       error
	statusMsg string
	width     int
	height    int
}

// issueDetailMsg carries an issue plus its time entries.
type issueDetailMsg struct {
	issue   *domain.Issue
	entries *domain.TimeEntryList
	err     error
}

type commentAddedMsg struct{ err error }
type timeLoggedMsg struct{ err error }
type copyRefMsg struct{ err error }

func newDetailModel(c *client.Client) detailModel {
	return detailModel{client: c}
}

func (m detailModel) load(id int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		issue, err := c.GetIssue(context.Background(), id)
		if err != nil {
			return issueDetailMsg{err: err}
		}
		entries, err := c.ListIssueTimeEntries(context.Background(), id)
		if err != nil {
			entries = nil
		}
		return issueDetailMsg{issue: issue, entries: entries}
	}
}

func (m detailModel) addComment(id int64, content string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		_, err := c.AddComment(context.Background(), id, content)
		return commentAddedMsg{err: err}
	}
}

func (m detailModel) logTime(id int64, hours float64, desc string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		_, err := c.LogTime(context.Background(), client.LogTimeRequest{
			IssueID:     id,
			Hours:       hours,
			Description: desc,
		})
		return timeLoggedMsg{err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case issueDetailMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.issue = msg.issue
		m.entries = msg.entries

	case commentAddedMsg:
		if msg.err != nil {
			m.statusMsg = "failed to add comment"
			return m, nil
		}
		m.statusMsg = ""
		if m.issue != nil {
			m.loading = true
			return m, m.load(m.issue.ID)
		}

	case timeLoggedMsg:
		if msg.err != nil {
			m.statusMsg = "failed to log time"
			return m, nil
		}
		m.statusMsg = "time logged"
		if m.issue != nil {
			m.loading = true
			return m, m.load(m.issue.ID)
		}

	case copyRefMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed"
		} else {
			m.statusMsg = "copied reference"
		}

	case tea.KeyMsg:
		if m.input != inputNone {
			switch msg.String() {
			case "esc":
				m.input = inputNone
				m.draft = ""
			case "enter":
				return m.submitDraft()
			case "backspace":
				if len(m.draft) > 0 {
					r := []rune(m.draft)
					m.draft = string(r[:len(r)-1])
				}
			default:
				if len(msg.Runes) > 0 {
					m.draft += string(msg.Runes)
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			m.closed = true
		case "m":
			m.input = inputComment
			m.draft = ""
			m.statusMsg = ""
		case "l":
			m.input = inputHours
			m.draft = ""
			m.statusMsg = ""
		case "c":
			if m.issue != nil {
				ref := fmt.Sprintf("#%d %s", m.issue.ID, m.issue.Title)
				return m, func() tea.Msg {
					return copyRefMsg{err: clipboard.WriteAll(ref)}
				}
			}
		case "e":
			if m.issue != nil {
				issue := *m.issue
				return m, func() tea.Msg {
					return editIssueMsg{issue: issue}
				}
			}
		}
	}
	return m, nil
}

// submitDraft dispatches the pending input. Hours accept "2.5" or
// "2.5 fixed the build" with a trailing description.
func (m detailModel) submitDraft() (detailModel, tea.Cmd) {
	draft := strings.TrimSpace(m.draft)
	input := m.input
	m.input = inputNone
	m.draft = ""
	if draft == "" || m.issue == nil {
		return m, nil
	}
	switch input {
	case inputComment:
		return m, m.addComment(m.issue.ID, draft)
	case inputHours:
		fields := strings.SplitN(draft, " ", 2)
		hours, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || hours <= 0 {
			m.statusMsg = "hours must be a positive number"
			return m, nil
		}
		desc := ""
		if len(fields) == 2 {
			desc = strings.TrimSpace(fields[1])
		}
		return m, m.logTime(m.issue.ID, hours, desc)
	}
	return m, nil
}

func (m detailModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("failed to load issue: "+m.err.Error()) + "\n")
		return b.String()
	}
	if m.issue == nil {
		return ""
	}
	issue := m.issue

	b.WriteString(" " + metaStyle.Render(fmt.Sprintf("#%d", issue.ID)) + " " + selectedStyle.Render(issue.Title) + "\n")

	meta := []string{
		statusStyle(string(issue.Status)).Render(string(issue.Status)),
		priorityStyle(string(issue.Priority)).Render(string(issue.Priority)),
	}
	if issue.Creator != nil {
		meta = append(meta, metaStyle.Render("by @"+issue.Creator.Username))
	}
	if issue.Assignee != nil {
		meta = append(meta, metaStyle.Render("assigned @"+issue.Assignee.Username))
	}
	meta = append(meta, metaStyle.Render("updated "+formatTime(issue.UpdatedAt)))
	b.WriteString(" " + strings.Join(meta, "  ") + "\n\n")

	if issue.Description != "" {
		for _, line := range strings.Split(issue.Description, "\n") {
			b.WriteString(" " + normalStyle.Render(truncStr(line, 76)) + "\n")
		}
		b.WriteString("\n")
	}

	// Time panel
	if m.entries != nil && m.entries.Total > 0 {
		b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("Time  %.1fh total", m.entries.TotalHours)) + "\n")
		for _, e := range m.entries.TimeEntries {
			who := ""
			if e.User != nil {
				who = "@" + e.User.Username + " "
			}
			line := fmt.Sprintf("%.1fh %s%s", e.Hours, who, truncStr(e.Description, 40))
			b.WriteString("  " + dimStyle.Render(line) + "  " + metaStyle.Render(formatTime(e.CreatedAt)) + "\n")
		}
		b.WriteString("\n")
	}

	// Comments
	b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("Comments (%d)", len(issue.Comments))) + "\n")
	if len(issue.Comments) == 0 {
		b.WriteString("  " + dimStyle.Render("no comments yet") + "\n")
	}
	for _, c := range issue.Comments {
		who := "someone"
		if c.Author != nil {
			who = c.Author.Username
		}
		b.WriteString("  " + accentStyle.Render("@"+who) + " " + metaStyle.Render(formatTime(c.CreatedAt)) + "\n")
		for _, line := range strings.Split(c.Content, "\n") {
			b.WriteString("  " + normalStyle.Render(truncStr(line, 74)) + "\n")
		}
	}

	switch m.input {
	case inputComment:
		b.WriteString("\n " + accentStyle.Render("comment> ") + selectedStyle.Render(m.draft) + accentStyle.Render("▌") + "\n")
	case inputHours:
		b.WriteString("\n " + accentStyle.Render("hours> ") + selectedStyle.Render(m.draft) + accentStyle.Render("▌") + dimStyle.Render("  (e.g. 2.5 fixed the build)") + "\n")
	}

	if m.statusMsg != "" {
		style := successStyle
		if strings.HasPrefix(m.statusMsg, "failed") || strings.Contains(m.statusMsg, "must be") {
			style = errorStyle
		}
		b.WriteString("\n " + style.Render(m.statusMsg) + "\n")
	}
	return b.String()
}
