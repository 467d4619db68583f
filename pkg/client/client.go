package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/trackdeck/trackdeck/pkg/domain"
)

// Client is the tracker API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Login exchanges a username and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Token, error) {
	var tok domain.Token
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/auth/login", body, &tok); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &tok, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// --- Issues ---

// CreateIssueRequest is the payload for creating a new issue.
type CreateIssueRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      domain.Status   `json:"status,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	AssigneeID  *int64          `json:"assignee_id,omitempty"`
}

// UpdateIssueRequest is the payload for updating an issue. Nil fields
// are left unchanged by the server.
type UpdateIssueRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *domain.Status   `json:"status,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty"`
	AssigneeID  *int64           `json:"assignee_id,omitempty"`
}

// ListIssues fetches a page of issues matching the filter.
func (c *Client) ListIssues(ctx context.Context, f domain.IssueFilter) (*domain.IssueList, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		params.Set("priority", string(f.Priority))
	}
	if f.AssigneeID != 0 {
		params.Set("assignee_id", strconv.FormatInt(f.AssigneeID, 10))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.SortBy != "" {
		params.Set("sort_by", f.SortBy)
	}
	if f.SortOrder != "" {
		params.Set("sort_order", f.SortOrder)
	}

	var list domain.IssueList
	if err := c.get(ctx, "/issues?"+params.Encode(), &list); err != nil {
		return nil, fmt.Errorf("client.ListIssues: %w", err)
	}
	return &list, nil
}

// GetIssue fetches a single issue by id, including comments.
func (c *Client) GetIssue(ctx context.Context, id int64) (*domain.Issue, error) {
	var issue domain.Issue
	if err := c.get(ctx, "/issues/"+strconv.FormatInt(id, 10), &issue); err != nil {
		return nil, fmt.Errorf("client.GetIssue: %w", err)
	}
	return &issue, nil
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*domain.Issue, error) {
	var created domain.Issue
	if err := c.post(ctx, "/issues", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateIssue: %w", err)
	}
	return &created, nil
}

// UpdateIssue applies a partial update to an issue.
func (c *Client) UpdateIssue(ctx context.Context, id int64, req UpdateIssueRequest) (*domain.Issue, error) {
	var updated domain.Issue
	if err := c.doRequest(ctx, http.MethodPut, "/issues/"+strconv.FormatInt(id, 10), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateIssue: %w", err)
	}
	return &updated, nil
}

// DeleteIssue deletes an issue by id.
func (c *Client) DeleteIssue(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/issues/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteIssue: %w", err)
	}
	return nil
}

// --- Comments ---

// ListComments returns the comments on an issue.
func (c *Client) ListComments(ctx context.Context, issueID int64) (*domain.CommentList, error) {
	var list domain.CommentList
	if err := c.get(ctx, "/issues/"+strconv.FormatInt(issueID, 10)+"/comments", &list); err != nil {
		return nil, fmt.Errorf("client.ListComments: %w", err)
	}
	return &list, nil
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, issueID int64, content string) (*domain.Comment, error) {
	var comment domain.Comment
	body := map[string]any{"issue_id": issueID, "content": content}
	if err := c.post(ctx, "/comments", body, &comment); err != nil {
		return nil, fmt.Errorf("client.AddComment: %w", err)
	}
	return &comment, nil
}

// --- Notifications ---

// ListNotifications fetches the current user's full notification list
// plus the server-computed unread count.
func (c *Client) ListNotifications(ctx context.Context) (*domain.NotificationList, error) {
	var list domain.NotificationList
	if err := c.get(ctx, "/notifications", &list); err != nil {
		return nil, fmt.Errorf("client.ListNotifications: %w", err)
	}
	return &list, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := c.doRequest(ctx, http.MethodPut, "/notifications/"+strconv.FormatInt(id, 10)+"/read", nil, &n); err != nil {
		return nil, fmt.Errorf("client.MarkNotificationRead: %w", err)
	}
	return &n, nil
}

// MarkAllNotificationsRead marks every notification for the current user as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPut, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("client.MarkAllNotificationsRead: %w", err)
	}
	return nil
}

// --- Time tracking ---

// LogTimeRequest is the payload for logging hours against an issue.
type LogTimeRequest struct {
	IssueID     int64      `json:"issue_id"`
	Hours       float64    `json:"hours"`
	Description string     `json:"description,omitempty"`
	DateLogged  *time.Time `json:"date_logged,omitempty"`
}

// LogTime records a time entry on an issue.
func (c *Client) LogTime(ctx context.Context, req LogTimeRequest) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	if err := c.post(ctx, "/time-entries", req, &entry); err != nil {
		return nil, fmt.Errorf("client.LogTime: %w", err)
	}
	return &entry, nil
}

// ListIssueTimeEntries returns the time logged against an issue.
func (c *Client) ListIssueTimeEntries(ctx context.Context, issueID int64) (*domain.TimeEntryList, error) {
	var list domain.TimeEntryList
	if err := c.get(ctx, "/issues/"+strconv.FormatInt(issueID, 10)+"/time-entries", &list); err != nil {
		return nil, fmt.Errorf("client.ListIssueTimeEntries: %w", err)
	}
	return &list, nil
}

// MyTimeEntries returns the current user's logged time across all issues.
func (c *Client) MyTimeEntries(ctx context.Context) (*domain.TimeEntryList, error) {
	var list domain.TimeEntryList
	if err := c.get(ctx, "/time-entries/my", &list); err != nil {
		return nil, fmt.Errorf("client.MyTimeEntries: %w", err)
	}
	return &list, nil
}

// --- Templates ---

// ListTemplates returns the active issue templates.
func (c *Client) ListTemplates(ctx context.Context) (*domain.TemplateList, error) {
	var list domain.TemplateList
	if err := c.get(ctx, "/templates", &list); err != nil {
		return nil, fmt.Errorf("client.ListTemplates: %w", err)
	}
	return &list, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Detail != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Detail}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}
