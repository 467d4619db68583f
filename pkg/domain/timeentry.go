package domain

import "time"

// TimeEntry is a block of hours logged against an issue.
type TimeEntry struct {
	ID          int64     `json:"id"`
	IssueID     int64     `json:"issue_id"`
	UserID      int64     `json:"user_id"`
	User        *User     `json:"user,omitempty"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description,omitempty"`
	DateLogged  time.Time `json:"date_logged"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimeEntryList is the response from the time entry listing endpoints.
type TimeEntryList struct {
	TimeEntries []TimeEntry `json:"time_entries"`
	Total       int         `json:"total"`
	TotalHours  float64     `json:"total_hours"`
}
