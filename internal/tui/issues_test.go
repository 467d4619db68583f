package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/pkg/domain"
)

func makeTestIssue(id int64, title string) domain.Issue {
	return domain.Issue{
		ID:       id,
		Title:    title,
		Status:   domain.StatusOpen,
		Priority: domain.PriorityMedium,
		Assignee: &domain.User{
			ID:       1,
			Username: "dana",
		},
		UpdatedAt: time.Now(),
	}
}

func newTestIssuesModel() issuesModel {
	m := newIssuesModel(nil, 20)
	m.width = 100
	m.height = 30
	m.loading = false
	return m
}

func TestIssuesListRendersRows(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(issuesLoadedMsg{list: &domain.IssueList{
		Issues: []domain.Issue{
			makeTestIssue(1, "Login page crashes on submit"),
			makeTestIssue(2, "Slow query on dashboard"),
		},
		Total:      2,
		Page:       1,
		TotalPages: 1,
	}})

	view := m.View()
	if !strings.Contains(view, "Login page crashes on submit") {
		t.Errorf("expected first issue in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Slow query on dashboard") {
		t.Errorf("expected second issue in view, got:\n%s", view)
	}
	if !strings.Contains(view, "@dana") {
		t.Errorf("expected assignee in view, got:\n%s", view)
	}
}

func TestIssuesLoadError(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(issuesLoadedMsg{err: errTest})
	if !strings.Contains(m.View(), "failed to load issues") {
		t.Error("expected load error in view")
	}
}

func TestIssuesEnterOpensDetail(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(issuesLoadedMsg{list: &domain.IssueList{
		Issues:     []domain.Issue{makeTestIssue(42, "x")},
		Total:      1,
		Page:       1,
		TotalPages: 1,
	}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should produce a command")
	}
	msg, ok := cmd().(openIssueMsg)
	if !ok {
		t.Fatalf("expected openIssueMsg, got %T", cmd())
	}
	if msg.id != 42 {
		t.Errorf("openIssueMsg.id = %d, want 42", msg.id)
	}
}

func TestIssuesSearchEditing(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.editing {
		t.Fatal("/ should enter search mode")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bug")})
	if m.search != "bug" {
		t.Errorf("search = %q, want %q", m.search, "bug")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.search != "bu" {
		t.Errorf("after backspace: search = %q", m.search)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("enter should leave search mode")
	}
	if cmd == nil {
		t.Error("enter should trigger a reload")
	}
}

func TestIssuesSearchEscClears(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing || m.search != "" {
		t.Errorf("esc should clear search, editing=%v search=%q", m.editing, m.search)
	}
}

func TestCycleStatus(t *testing.T) {
	got := domain.Status("")
	want := []domain.Status{domain.StatusOpen, domain.StatusInProgress, domain.StatusClosed, ""}
	for i, w := range want {
		got = cycleStatus(got)
		if got != w {
			t.Fatalf("step %d: got %q, want %q", i, got, w)
		}
	}
}

func TestCyclePriority(t *testing.T) {
	got := cyclePriority("")
	if got != domain.PriorityLow {
		t.Errorf("first cycle = %q, want low", got)
	}
	if got := cyclePriority(domain.PriorityCritical); got != "" {
		t.Errorf("cycle past critical = %q, want empty", got)
	}
}

func TestIssuesPagination(t *testing.T) {
	m := newTestIssuesModel()
	m, _ = m.Update(issuesLoadedMsg{list: &domain.IssueList{
		Issues:     []domain.Issue{makeTestIssue(1, "a")},
		Total:      40,
		Page:       1,
		TotalPages: 2,
	}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if cmd == nil {
		t.Fatal("] should load the next page")
	}
	if m.page != 2 {
		t.Errorf("page = %d, want 2", m.page)
	}

	m.page = 1
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")}); cmd != nil {
		t.Error("[ on first page should not reload")
	}
}
