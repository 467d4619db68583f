package domain

import "time"

// IssueTemplate pre-fills the issue form with boilerplate title and
// description text for recurring issue shapes.
type IssueTemplate struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	TitleTemplate       string    `json:"title_template"`
	DescriptionTemplate string    `json:"description_template"`
	DefaultPriority     Priority  `json:"default_priority"`
	DefaultAssigneeID   *int64    `json:"default_assignee_id,omitempty"`
	CreatedBy           int64     `json:"created_by"`
	Creator             *User     `json:"creator,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// TemplateList is the response from the template listing endpoint.
type TemplateList struct {
	Templates []IssueTemplate `json:"templates"`
	Total     int             `json:"total"`
}
