package domain

import "time"

// Comment is a discussion entry on an issue.
type Comment struct {
	ID        int64     `json:"id"`
	IssueID   int64     `json:"issue_id"`
	AuthorID  int64     `json:"author_id"`
	Author    *User     `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentList is the response from the comment listing endpoint.
type CommentList struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}
