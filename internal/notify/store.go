// Package notify owns the canonical notification state for the current
// user session: the newest-first notification list, the derived unread
// counter, and the fan-out of realtime arrivals to subscribers and
// desktop alerts.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trackdeck/trackdeck/pkg/domain"
	"github.com/trackdeck/trackdeck/pkg/realtime"
)

// Client is the slice of the REST client the store depends on.
type Client interface {
	ListNotifications(ctx context.Context) (*domain.NotificationList, error)
	MarkNotificationRead(ctx context.Context, id int64) (*domain.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error
}

// Connection is the slice of the realtime manager the store depends on.
type Connection interface {
	Connect(userID int64)
	Disconnect()
	Messages() <-chan realtime.Message
	Status() <-chan bool
}

// Alerter delivers OS-level alerts. Permission is requested at most once
// per installation; a previous grant or denial is never re-prompted.
type Alerter interface {
	RequestPermission()
	Granted() bool
	Alert(title, message string)
}

// Event is an immutable snapshot published to subscribers after every
// state change.
type Event struct {
	// Notifications is the current list, newest first.
	Notifications []domain.Notification

	// UnreadCount always equals the number of unread entries in
	// Notifications.
	UnreadCount int

	// Connected is the realtime connectivity state.
	Connected bool

	// Toast is set when this event was caused by a realtime arrival;
	// the UI renders it as a transient in-app toast.
	Toast *domain.Notification
}

// Store is the notification store and dispatcher for one user session.
//
// All mutations of the (list, counter) pair happen under one mutex, so a
// realtime arrival and a mark-read confirmation can never interleave
// partially.
type Store struct {
	client Client
	conn   Connection
	alert  Alerter
	logger *slog.Logger

	mu          sync.Mutex
	list        []domain.Notification
	unread      int
	connected   bool
	lastLocalID int64
	subscribers map[int]chan Event
	nextSubID   int
	started     bool

	stop chan struct{}
	done chan struct{}
}

// NewStore creates a Store wired to the given REST client, realtime
// connection and alerter.
func NewStore(c Client, conn Connection, alert Alerter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		client:      c,
		conn:        conn,
		alert:       alert,
		logger:      logger,
		subscribers: make(map[int]chan Event),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// InitializeForUser requests alert permission, opens the realtime
// connection for the user and loads the notification history. A REST
// failure on the history load is returned but leaves the realtime
// stream running.
func (s *Store) InitializeForUser(ctx context.Context, userID int64) error {
	s.alert.RequestPermission()

	s.mu.Lock()
	if !s.started {
		s.started = true
		go s.run(s.stop, s.done)
	}
	s.mu.Unlock()

	s.conn.Connect(userID)
	return s.LoadNotifications(ctx)
}

// run drains the realtime streams until Close. The channels are passed
// in so a Close/re-Initialize cycle never races a fresh loop against
// the channels of a previous one.
func (s *Store) run(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case msg := <-s.conn.Messages():
			s.handleRealtime(msg)
		case connected := <-s.conn.Status():
			s.mu.Lock()
			s.connected = connected
			s.publishLocked(nil)
			s.mu.Unlock()
		}
	}
}

// LoadNotifications fetches the full history and replaces the local list
// and counter wholesale; the server is authoritative at load time.
func (s *Store) LoadNotifications(ctx context.Context) error {
	resp, err := s.client.ListNotifications(ctx)
	if err != nil {
		s.logger.Error("load notifications failed", "err", err)
		return err
	}

	s.mu.Lock()
	s.list = append([]domain.Notification(nil), resp.Notifications...)
	s.unread = resp.UnreadCount
	s.publishLocked(nil)
	s.mu.Unlock()
	return nil
}

// handleRealtime builds a provisional notification from a push frame,
// prepends it and fans out the alert. This path never calls REST; the
// provisional id is replaced on the next full load.
func (s *Store) handleRealtime(msg realtime.Message) {
	n := domain.Notification{
		Type:      domain.NotificationType(msg.Type),
		Title:     msg.Title,
		Message:   msg.Message,
		IssueID:   msg.IssueID,
		IsRead:    false,
		CreatedAt: msg.Time(),
	}

	s.mu.Lock()
	n.ID = s.nextLocalIDLocked()
	s.list = append([]domain.Notification{n}, s.list...)
	s.unread++
	s.publishLocked(&n)
	s.mu.Unlock()

	if s.alert.Granted() {
		s.alert.Alert(n.Title, n.Message)
	}
}

// nextLocalIDLocked returns a monotonic provisional id. Unix milliseconds
// normally; bumped by one when two arrivals land in the same millisecond.
func (s *Store) nextLocalIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastLocalID {
		id = s.lastLocalID + 1
	}
	s.lastLocalID = id
	return id
}

// MarkAsRead confirms the read with the server first, then flips the
// entry in place. On REST failure local state is left untouched and the
// error is returned.
func (s *Store) MarkAsRead(ctx context.Context, id int64) error {
	if _, err := s.client.MarkNotificationRead(ctx, id); err != nil {
		s.logger.Error("mark as read failed", "id", id, "err", err)
		return err
	}

	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].IsRead = true
			break
		}
	}
	s.unread = s.countUnreadLocked()
	s.publishLocked(nil)
	s.mu.Unlock()
	return nil
}

// MarkAllAsRead confirms the bulk read with the server, then marks every
// local entry read and zeroes the counter unconditionally.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	if err := s.client.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Error("mark all as read failed", "err", err)
		return err
	}

	s.mu.Lock()
	for i := range s.list {
		s.list[i].IsRead = true
	}
	s.unread = 0
	s.publishLocked(nil)
	s.mu.Unlock()
	return nil
}

func (s *Store) countUnreadLocked() int {
	n := 0
	for i := range s.list {
		if !s.list[i].IsRead {
			n++
		}
	}
	return n
}

// Notifications returns a copy of the current list, newest first.
func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.list...)
}

// UnreadCount returns the current unread counter.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Connected returns the last observed realtime connectivity state.
func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Subscribe registers an event stream and immediately delivers the
// current snapshot, so a subscriber that attaches after the initial
// load still sees the loaded state. The returned cancel func must be
// called when the owning view unmounts or the channel leaks.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, 16)
	s.subscribers[id] = ch
	ch <- s.snapshotLocked(nil)
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) snapshotLocked(toast *domain.Notification) Event {
	return Event{
		Notifications: append([]domain.Notification(nil), s.list...),
		UnreadCount:   s.unread,
		Connected:     s.connected,
		Toast:         toast,
	}
}

// publishLocked snapshots state and fans it out without blocking; a
// lagging subscriber misses intermediate snapshots, never future ones.
func (s *Store) publishLocked(toast *domain.Notification) {
	if len(s.subscribers) == 0 {
		return
	}
	ev := s.snapshotLocked(toast)
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close tears the session down: stops the dispatch loop, disconnects the
// realtime connection (cancelling any pending reconnect timer) and drops
// all subscribers. The stop channels are recreated so a later
// InitializeForUser starts a fresh loop.
func (s *Store) Close() {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.subscribers = make(map[int]chan Event)
	stop, done := s.stop, s.done
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	if started {
		close(stop)
		<-done
	}
	s.conn.Disconnect()
}
