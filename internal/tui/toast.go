package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/trackdeck/trackdeck/pkg/domain"
)

// toastTTL is how long a toast stays fully visible.
const toastTTL = 5 * time.Second

// toastFadeDur is the length of the enter and exit fades.
const toastFadeDur = 250 * time.Millisecond

// maxToasts caps how many toasts stack on screen at once.
const maxToasts = 3

type toastPhase int

const (
	toastEntering toastPhase = iota
	toastVisible
	toastLeaving
)

type toast struct {
	id      uuid.UUID
	title   string
	message string
	phase   toastPhase
}

// toastSettleMsg flips a toast from entering to visible.
type toastSettleMsg struct{ id uuid.UUID }

// toastLeaveMsg starts a toast's exit fade.
type toastLeaveMsg struct{ id uuid.UUID }

// toastGoneMsg removes a toast entirely.
type toastGoneMsg struct{ id uuid.UUID }

type toastModel struct {
	toasts []toast
	width  int
}

func newToastModel() toastModel {
	return toastModel{}
}

// push adds a toast for a notification and returns its lifecycle timers.
func (m *toastModel) push(n *domain.Notification) tea.Cmd {
	t := toast{
		id:      uuid.New(),
		title:   n.Title,
		message: n.Message,
		phase:   toastEntering,
	}
	m.toasts = append(m.toasts, t)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	id := t.id
	settle := tea.Tick(toastFadeDur, func(time.Time) tea.Msg {
		return toastSettleMsg{id: id}
	})
	leave := tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastLeaveMsg{id: id}
	})
	gone := tea.Tick(toastTTL+toastFadeDur, func(time.Time) tea.Msg {
		return toastGoneMsg{id: id}
	})
	return tea.Batch(settle, leave, gone)
}

func (m toastModel) Update(msg tea.Msg) (toastModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case toastSettleMsg:
		m.setPhase(msg.id, toastVisible)
	case toastLeaveMsg:
		m.setPhase(msg.id, toastLeaving)
	case toastGoneMsg:
		m.remove(msg.id)
	}
	return m, nil
}

func (m *toastModel) setPhase(id uuid.UUID, p toastPhase) {
	for i := range m.toasts {
		if m.toasts[i].id == id && m.toasts[i].phase < p {
			m.toasts[i].phase = p
		}
	}
}

func (m *toastModel) remove(id uuid.UUID) {
	out := m.toasts[:0]
	for _, t := range m.toasts {
		if t.id != id {
			out = append(out, t)
		}
	}
	m.toasts = out
}

func (m toastModel) empty() bool {
	return len(m.toasts) == 0
}

// View renders the toast stack right-aligned, newest on top.
func (m toastModel) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	boxWidth := 40
	if m.width > 0 && m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}
	var rendered []string
	for i := len(m.toasts) - 1; i >= 0; i-- {
		t := m.toasts[i]
		box := toastBoxStyle
		title := toastTitleStyle.Render(truncStr(t.title, boxWidth-2))
		if t.phase != toastVisible {
			box = toastFadeBoxStyle
			title = dimStyle.Render(truncStr(t.title, boxWidth-2))
		}
		body := title
		if t.message != "" {
			body += "\n" + normalStyle.Render(truncStr(t.message, boxWidth-2))
		}
		card := box.Width(boxWidth).Render(body)
		if m.width > 0 {
			card = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, card)
		}
		rendered = append(rendered, card)
	}
	return strings.Join(rendered, "\n")
}
