package domain

import "time"

// Status is the workflow state of an issue.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Priority is the urgency level of an issue.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Issue is a tracked work item.
type Issue struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatorID   int64     `json:"creator_id"`
	Creator     *User     `json:"creator,omitempty"`
	AssigneeID  *int64    `json:"assignee_id,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IssueList is the paginated response from the issue listing endpoint.
type IssueList struct {
	Issues     []Issue `json:"issues"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// IssueFilter narrows the issue listing. Zero values mean "no filter".
type IssueFilter struct {
	Search     string
	Status     Status
	Priority   Priority
	AssigneeID int64
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
