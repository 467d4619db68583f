package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

// statusCycle is the order the s key walks the status filter.
var statusCycle = []domain.Status{"", domain.StatusOpen, domain.StatusInProgress, domain.StatusClosed}

// priorityCycle is the order the p key walks the priority filter.
var priorityCycle = []domain.Priority{"", domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityCritical}

type issuesModel struct {
	client    *client.Client
	issues    []domain.Issue
	total     int
	page      int
	pages     int
	pageSize  int
	cursor    int
	search    string
	editing   bool // true when typing in search
	status    domain.Status
	priority  domain.Priority
	loading   bool
	spinner   spinner.Model
	err       error
	statusMsg string
	width     int
	height    int
}

// issuesLoadedMsg carries a page of issues from the API.
type issuesLoadedMsg struct {
	list *domain.IssueList
	err  error
}

// openIssueMsg asks the app to open the detail view for an issue.
type openIssueMsg struct {
	id int64
}

// editIssueMsg asks the app to open the edit form for an issue.
type editIssueMsg struct {
	issue domain.Issue
}

func newIssuesModel(c *client.Client, pageSize int) issuesModel {
	if pageSize <= 0 {
		pageSize = 20
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return issuesModel{
		client:   c,
		page:     1,
		pageSize: pageSize,
		loading:  true,
		spinner:  sp,
	}
}

func (m issuesModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

func (m issuesModel) load() tea.Cmd {
	c := m.client
	f := domain.IssueFilter{
		Search:   m.search,
		Status:   m.status,
		Priority: m.priority,
		Page:     m.page,
		PageSize: m.pageSize,
	}
	return func() tea.Msg {
		list, err := c.ListIssues(context.Background(), f)
		return issuesLoadedMsg{list: list, err: err}
	}
}

func (m issuesModel) Update(msg tea.Msg) (issuesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case issuesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.issues = msg.list.Issues
		m.total = msg.list.Total
		m.page = msg.list.Page
		m.pages = msg.list.TotalPages
		if m.cursor >= len(m.issues) {
			m.cursor = len(m.issues) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case issueSavedMsg:
		if msg.err == nil {
			m.statusMsg = "issue saved"
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick)
		}

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				m.editing = false
				m.page = 1
				m.loading = true
				return m, tea.Batch(m.load(), m.spinner.Tick)
			case "esc":
				m.editing = false
				m.search = ""
				m.page = 1
				m.loading = true
				return m, tea.Batch(m.load(), m.spinner.Tick)
			case "backspace":
				if len(m.search) > 0 {
					r := []rune(m.search)
					m.search = string(r[:len(r)-1])
				}
			default:
				if len(msg.Runes) > 0 {
					m.search += string(msg.Runes)
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.issues)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "/":
			m.editing = true
			m.search = ""
		case "s":
			m.status = cycleStatus(m.status)
			m.page = 1
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick)
		case "p":
			m.priority = cyclePriority(m.priority)
			m.page = 1
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick)
		case "]", "right":
			if m.page < m.pages {
				m.page++
				m.loading = true
				return m, tea.Batch(m.load(), m.spinner.Tick)
			}
		case "[", "left":
			if m.page > 1 {
				m.page--
				m.loading = true
				return m, tea.Batch(m.load(), m.spinner.Tick)
			}
		case "enter":
			if m.cursor < len(m.issues) {
				return m, func() tea.Msg {
					return openIssueMsg{id: m.issues[m.cursor].ID}
				}
			}
		case "e":
			if m.cursor < len(m.issues) {
				issue := m.issues[m.cursor]
				return m, func() tea.Msg {
					return editIssueMsg{issue: issue}
				}
			}
		}
	}
	return m, nil
}

func cycleStatus(s domain.Status) domain.Status {
	for i, c := range statusCycle {
		if c == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

func cyclePriority(p domain.Priority) domain.Priority {
	for i, c := range priorityCycle {
		if c == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return ""
}

func (m issuesModel) View() string {
	var b strings.Builder

	header := sectionHeaderStyle.Render("Issues")
	if m.total > 0 {
		header += "  " + metaStyle.Render(fmt.Sprintf("%d total", m.total))
	}
	b.WriteString(" " + header + "\n")

	// Active filter line
	var filters []string
	if m.editing {
		filters = append(filters, accentStyle.Render("/")+selectedStyle.Render(m.search)+accentStyle.Render("▌"))
	} else if m.search != "" {
		filters = append(filters, metaStyle.Render("search: ")+normalStyle.Render(m.search))
	}
	if m.status != "" {
		filters = append(filters, metaStyle.Render("status: ")+statusStyle(string(m.status)).Render(string(m.status)))
	}
	if m.priority != "" {
		filters = append(filters, metaStyle.Render("priority: ")+priorityStyle(string(m.priority)).Render(string(m.priority)))
	}
	if len(filters) > 0 {
		b.WriteString(" " + strings.Join(filters, "  ") + "\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(" " + m.spinner.View() + dimStyle.Render("loading issues...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errorStyle.Render("failed to load issues: "+m.err.Error()) + "\n")
		return b.String()
	}
	if len(m.issues) == 0 {
		b.WriteString(" " + dimStyle.Render("no issues match") + "\n")
		return b.String()
	}

	for i, issue := range m.issues {
		id := metaStyle.Render(fmt.Sprintf("#%-4d", issue.ID))
		pri := priorityStyle(string(issue.Priority)).Render(padRight(string(issue.Priority), 8))
		st := statusStyle(string(issue.Status)).Render(padRight(string(issue.Status), 12))
		title := truncStr(issue.Title, 44)
		assignee := ""
		if issue.Assignee != nil {
			assignee = metaStyle.Render("@" + issue.Assignee.Username)
		}
		age := metaStyle.Render(formatTime(issue.UpdatedAt))

		var row string
		if i == m.cursor {
			row = selectedRowBg.Render(fmt.Sprintf(" %s %s %s %s %s  %s", id, pri, st, selectedStyle.Render(padRight(title, 44)), assignee, age))
		} else {
			row = fmt.Sprintf(" %s %s %s %s %s  %s", id, pri, st, normalStyle.Render(padRight(title, 44)), assignee, age)
		}
		b.WriteString(row + "\n")
	}

	if m.pages > 1 {
		b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d/%d", m.page, m.pages)) + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + successStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}
