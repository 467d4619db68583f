package domain

import "time"

// NotificationType is the fixed vocabulary of notification categories.
// It only drives icon selection and visual grouping; no business logic
// branches on it outside the display layer.
type NotificationType string

const (
	NotifIssueAssigned NotificationType = "issue_assigned"
	NotifIssueUpdated  NotificationType = "issue_updated"
	NotifCommentAdded  NotificationType = "comment_added"
	NotifMention       NotificationType = "mention"
	NotifTimeLogged    NotificationType = "time_logged"
)

// Notification is a single alert delivered to a user.
//
// Server-issued notifications carry a stable id. Notifications built
// locally from a realtime push carry a provisional id (current unix
// milliseconds) that is replaced on the next full history load and must
// never be persisted.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	UserID    int64            `json:"user_id"`
	IssueID   *int64           `json:"issue_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationList is the response from the notification listing endpoint.
// UnreadCount is server-computed and authoritative at load time.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
}
