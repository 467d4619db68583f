package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/trackdeck/trackdeck/pkg/client"
	"github.com/trackdeck/trackdeck/pkg/domain"
)

// issueSavedMsg carries the result of a create or update.
type issueSavedMsg struct {
	issue *domain.Issue
	err   error
}

// formCancelMsg is dispatched when the user aborts the form.
type formCancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	priority    string
	status      string
	templateID  int64
}

type formModel struct {
	client    *client.Client
	form      *huh.Form
	fb        *formBindings
	templates []domain.IssueTemplate
	editMode  bool
	editID    int64
	saving    bool
	err       error
	width     int
	height    int
}

// templatesLoadedMsg carries the template list for the create form.
type templatesLoadedMsg struct {
	templates []domain.IssueTemplate
	err       error
}

func newFormModel(c *client.Client) formModel {
	return formModel{
		client: c,
		fb:     &formBindings{priority: string(domain.PriorityMedium)},
	}
}

func (m formModel) loadTemplates() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		list, err := c.ListTemplates(context.Background())
		if err != nil {
			return templatesLoadedMsg{err: err}
		}
		return templatesLoadedMsg{templates: list.Templates}
	}
}

// startCreate initializes the form for a new issue.
func (m *formModel) startCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.saving = false
	m.err = nil
	m.fb.title = ""
	m.fb.description = ""
	m.fb.priority = string(domain.PriorityMedium)
	m.fb.status = ""
	m.fb.templateID = 0
	m.form = m.buildForm()
	return tea.Batch(m.form.Init(), m.loadTemplates())
}

// startEdit initializes the form with an existing issue's fields.
func (m *formModel) startEdit(issue domain.Issue) tea.Cmd {
	m.editMode = true
	m.editID = issue.ID
	m.saving = false
	m.err = nil
	m.fb.title = issue.Title
	m.fb.description = issue.Description
	m.fb.priority = string(issue.Priority)
	m.fb.status = string(issue.Status)
	m.fb.templateID = 0
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *formModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What is wrong?").
			Value(&m.fb.title),
		huh.NewText().
			Title("Description").
			Placeholder("Steps, context, expected behavior...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("Low", string(domain.PriorityLow)),
				huh.NewOption("Medium", string(domain.PriorityMedium)),
				huh.NewOption("High", string(domain.PriorityHigh)),
				huh.NewOption("Critical", string(domain.PriorityCritical)),
			).
			Value(&m.fb.priority),
	}
	if !m.editMode && len(m.templates) > 0 {
		fields = append(fields, m.templateField())
	}
	if m.editMode {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Open", string(domain.StatusOpen)),
					huh.NewOption("In progress", string(domain.StatusInProgress)),
					huh.NewOption("Closed", string(domain.StatusClosed)),
				).
				Value(&m.fb.status),
		)
	}
	form := huh.NewForm(huh.NewGroup(fields...))
	if m.width > 0 {
		form = form.WithWidth(min(m.width-4, 72))
	}
	return form
}

func (m *formModel) templateField() huh.Field {
	opts := []huh.Option[int64]{huh.NewOption("None", int64(0))}
	for _, t := range m.templates {
		if t.IsActive {
			opts = append(opts, huh.NewOption(t.Name, t.ID))
		}
	}
	return huh.NewSelect[int64]().
		Title("Template").
		Description("Fills blank title and description on submit").
		Options(opts...).
		Value(&m.fb.templateID)
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case templatesLoadedMsg:
		if msg.err == nil {
			m.templates = msg.templates
		}
		// Rebuild so the template selector appears
		if m.form != nil && !m.editMode && len(m.templates) > 0 {
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, nil

	case issueSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil
	}

	if m.form == nil || m.saving {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.saving = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return formCancelMsg{} }
	}
	return m, cmd
}

func (m formModel) submit() tea.Cmd {
	fb := *m.fb
	if !m.editMode && fb.templateID != 0 {
		for _, t := range m.templates {
			if t.ID != fb.templateID {
				continue
			}
			if strings.TrimSpace(fb.title) == "" {
				fb.title = t.TitleTemplate
			}
			if strings.TrimSpace(fb.description) == "" {
				fb.description = t.DescriptionTemplate
			}
			break
		}
	}
	c := m.client
	if m.editMode {
		id := m.editID
		title := fb.title
		desc := fb.description
		status := domain.Status(fb.status)
		priority := domain.Priority(fb.priority)
		return func() tea.Msg {
			issue, err := c.UpdateIssue(context.Background(), id, client.UpdateIssueRequest{
				Title:       &title,
				Description: &desc,
				Status:      &status,
				Priority:    &priority,
			})
			return issueSavedMsg{issue: issue, err: err}
		}
	}
	return func() tea.Msg {
		issue, err := c.CreateIssue(context.Background(), client.CreateIssueRequest{
			Title:       fb.title,
			Description: fb.description,
			Priority:    domain.Priority(fb.priority),
		})
		return issueSavedMsg{issue: issue, err: err}
	}
}

func (m formModel) View() string {
	if m.form == nil {
		return ""
	}
	title := "New Issue"
	if m.editMode {
		title = "Edit Issue"
	}
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render(title) + "\n\n")
	if m.saving {
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
		return b.String()
	}
	b.WriteString(m.form.View())
	if m.err != nil {
		b.WriteString("\n " + errorStyle.Render("save failed: "+m.err.Error()) + "\n")
	}
	return b.String()
}
