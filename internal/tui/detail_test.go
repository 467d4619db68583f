package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/pkg/domain"
)

func seededDetail() detailModel {
	m := newDetailModel(nil)
	m.width = 90
	m.height = 30
	m, _ = m.Update(issueDetailMsg{
		issue: &domain.Issue{
			ID:          7,
			Title:       "Crash when saving draft",
			Description: "Repro: open the form and hit save twice.",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityHigh,
			Creator:     &domain.User{Username: "sam"},
			Comments: []domain.Comment{
				{
					ID:        1,
					Content:   "Can reproduce on main.",
					Author:    &domain.User{Username: "lee"},
					CreatedAt: time.Now(),
				},
			},
			UpdatedAt: time.Now(),
		},
		entries: &domain.TimeEntryList{
			TimeEntries: []domain.TimeEntry{
				{ID: 1, IssueID: 7, Hours: 2.5, Description: "triage", CreatedAt: time.Now()},
			},
			Total:      1,
			TotalHours: 2.5,
		},
	})
	return m
}

func TestDetailRendersIssue(t *testing.T) {
	m := seededDetail()
	view := m.View()
	for _, want := range []string{"#7", "Crash when saving draft", "Repro:", "@sam", "@lee", "Can reproduce on main.", "2.5h total"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestDetailEscCloses(t *testing.T) {
	m := seededDetail()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.closed {
		t.Error("esc should close the detail view")
	}
}

func TestDetailCommentInput(t *testing.T) {
	m := seededDetail()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if m.input != inputComment {
		t.Fatal("m should open the comment input")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("lgtm")})
	if m.draft != "lgtm" {
		t.Errorf("draft = %q", m.draft)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.input != inputNone || m.draft != "" {
		t.Error("esc should cancel the input")
	}
}

func TestDetailHoursValidation(t *testing.T) {
	m := seededDetail()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if m.input != inputHours {
		t.Fatal("l should open the hours input")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.statusMsg != "hours must be a positive number" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if m.input != inputNone {
		t.Error("input should close after submit")
	}
}

func TestDetailHoursParsesDescription(t *testing.T) {
	m := seededDetail()
	m.input = inputHours
	m.draft = "1.5 fixed the flaky test"
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("valid hours should dispatch a log command")
	}
	if m.statusMsg != "" {
		t.Errorf("unexpected statusMsg %q", m.statusMsg)
	}
}

func TestDetailEditDispatches(t *testing.T) {
	m := seededDetail()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatal("e should produce a command")
	}
	msg, ok := cmd().(editIssueMsg)
	if !ok {
		t.Fatalf("expected editIssueMsg, got %T", cmd())
	}
	if msg.issue.ID != 7 {
		t.Errorf("editIssueMsg.issue.ID = %d, want 7", msg.issue.ID)
	}
}
