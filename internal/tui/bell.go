package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/internal/notify"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

// bellStatusTTL is how long a transient error message stays visible.
const bellStatusTTL = 4 * time.Second

type bellModel struct {
	store         *notify.Store
	notifications []domain.Notification
	unread        int
	connected     bool
	exhausted     bool
	cursor        int
	statusMsg     string
	statusSeq     int
	width         int
	height        int
}

type markReadResultMsg struct{ err error }
type markAllReadResultMsg struct{ err error }

// bellStatusClearMsg expires a transient error message. The sequence
// number keeps a stale timer from wiping a newer message.
type bellStatusClearMsg struct{ seq int }

func (m *bellModel) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(bellStatusTTL, func(time.Time) tea.Msg {
		return bellStatusClearMsg{seq: seq}
	})
}

func newBellModel(s *notify.Store) bellModel {
	return bellModel{store: s}
}

func (m bellModel) Init() tea.Cmd {
	return nil
}

func (m bellModel) markRead(id int64) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return markReadResultMsg{err: s.MarkAsRead(context.Background(), id)}
	}
}

func (m bellModel) markAllRead() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return markAllReadResultMsg{err: s.MarkAllAsRead(context.Background())}
	}
}

func (m bellModel) Update(msg tea.Msg) (bellModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storeEventMsg:
		m.notifications = msg.ev.Notifications
		m.unread = msg.ev.UnreadCount
		m.connected = msg.ev.Connected
		if m.cursor >= len(m.notifications) {
			m.cursor = len(m.notifications) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case markReadResultMsg:
		if msg.err != nil {
			return m, m.setStatus("failed to mark notification read")
		}
		m.statusMsg = ""

	case markAllReadResultMsg:
		if msg.err != nil {
			return m, m.setStatus("failed to mark all read")
		}
		m.statusMsg = ""

	case bellStatusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.notifications)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "r":
			if m.cursor < len(m.notifications) {
				n := m.notifications[m.cursor]
				if !n.IsRead {
					return m, m.markRead(n.ID)
				}
			}
		case "a":
			if m.unread > 0 {
				return m, m.markAllRead()
			}
		}
	}
	return m, nil
}

// typeGlyph maps a notification type to its list marker.
func typeGlyph(t domain.NotificationType) string {
	switch t {
	case domain.NotifIssueAssigned:
		return "»"
	case domain.NotifIssueUpdated:
		return "↻"
	case domain.NotifCommentAdded:
		return "✎"
	case domain.NotifMention:
		return "@"
	case domain.NotifTimeLogged:
		return "◷"
	default:
		return "•"
	}
}

func (m bellModel) View() string {
	var b strings.Builder

	header := sectionHeaderStyle.Render("Notifications")
	if m.unread > 0 {
		header += "  " + badgeStyle.Render(fmt.Sprintf("%d", m.unread))
	}
	b.WriteString(" " + header + "\n")

	switch {
	case m.exhausted:
		b.WriteString(" " + deadDotStyle.Render("✕") + " " + errorStyle.Render("live updates unavailable") + metaStyle.Render(" (restart to retry)") + "\n\n")
	case m.connected:
		b.WriteString(" " + liveDotStyle.Render("●") + " " + metaStyle.Render("live updates active") + "\n\n")
	default:
		b.WriteString(" " + dimStyle.Render("○") + " " + metaStyle.Render("connecting...") + "\n\n")
	}

	if len(m.notifications) == 0 {
		b.WriteString(" " + dimStyle.Render("no notifications") + "\n")
	}

	for i, n := range m.notifications {
		mark := "  "
		if !n.IsRead {
			mark = unreadMarkStyle.Render("● ")
		}
		glyph := metaStyle.Render(typeGlyph(n.Type))
		title := n.Title
		if n.IssueID != nil {
			title = fmt.Sprintf("#%d %s", *n.IssueID, title)
		}
		age := metaStyle.Render(formatTime(n.CreatedAt))

		line := fmt.Sprintf("%s%s %s", mark, glyph, truncStr(title, 50))
		style := normalStyle
		if n.IsRead {
			style = dimStyle
		}
		row := " " + style.Render(line) + "  " + age
		if i == m.cursor {
			row = selectedRowBg.Render(" " + selectedStyle.Render(line) + "  " + age)
		}
		b.WriteString(row + "\n")
		if n.Message != "" {
			msg := dimStyle.Render(truncStr(n.Message, 64))
			b.WriteString("      " + msg + "\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + errorStyle.Render(m.statusMsg) + "\n")
	}

	return b.String()
}
