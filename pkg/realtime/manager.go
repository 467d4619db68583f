// Package realtime maintains the persistent notification connection to the
// tracker backend. It owns at most one live WebSocket per user session and
// presents it as two streams: decoded push messages and a boolean
// connectivity state. Drops are recovered with a bounded number of
// fixed-delay reconnect attempts.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultMaxRetries is how many reconnect attempts are made after a
	// drop before the manager gives up.
	DefaultMaxRetries = 5

	// DefaultRetryDelay is the fixed wait between reconnect attempts.
	DefaultRetryDelay = 3 * time.Second
)

// Message is a decoded realtime push frame.
//
// Timestamp is kept as the raw wire string: the backend is not strict
// about its timestamp format and a parse failure must not cause the
// whole frame to be dropped as a heartbeat.
type Message struct {
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	IssueID   *int64         `json:"issue_id,omitempty"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Time parses the frame timestamp, falling back to the current time when
// the server sent something unparseable.
func (m Message) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, m.Timestamp); err == nil {
			return t
		}
	}
	return time.Now()
}

// Config configures a Manager.
type Config struct {
	// URL is the WebSocket base URL, e.g. "ws://tracker.local:8002".
	// The per-user path is appended on Connect.
	URL string

	// MaxRetries and RetryDelay bound the reconnection procedure.
	// Zero values select the defaults.
	MaxRetries int
	RetryDelay time.Duration

	Logger *slog.Logger
}

// Manager owns the realtime connection for one user session.
//
// Connect is safe to call from any goroutine; the (conn, attempts, timer)
// triple is guarded by a mutex. Messages and Status are buffered streams;
// the consumer is expected to drain them for the life of the session and
// release them by calling Disconnect.
type Manager struct {
	url        string
	maxRetries int
	retryDelay time.Duration
	dialer     *websocket.Dialer
	logger     *slog.Logger

	msgCh    chan Message
	statusCh chan bool

	mu         sync.Mutex
	conn       *websocket.Conn
	userID     int64
	attempts   int
	retryTimer *time.Timer
	stopped    bool
	exhausted  bool
}

// NewManager creates a Manager for the given config.
func NewManager(cfg Config) *Manager {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		url:        cfg.URL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:     cfg.Logger,
		msgCh:      make(chan Message, 64),
		statusCh:   make(chan bool, 16),
	}
}

// Messages returns the stream of decoded push frames. Heartbeat frames
// (anything that fails structured decode) never appear here.
func (m *Manager) Messages() <-chan Message {
	return m.msgCh
}

// Status returns the connectivity stream. True is published on every
// successful open, false on every close or transport error.
func (m *Manager) Status() <-chan bool {
	return m.statusCh
}

// Connected reports whether a connection is currently open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Exhausted reports whether the reconnection budget has been spent.
// Once true, no further automatic attempts occur until Connect is
// called again explicitly.
func (m *Manager) Exhausted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exhausted
}

// Connect opens the realtime connection for the given user. It is
// idempotent: when a connection is already open it returns immediately.
// Dial failures are not returned; they publish a false connectivity
// state and feed the bounded reconnection procedure.
func (m *Manager) Connect(userID int64) {
	m.mu.Lock()
	if m.conn != nil {
		m.mu.Unlock()
		return
	}
	m.stopped = false
	m.userID = userID
	addr := fmt.Sprintf("%s/ws/%d", m.url, userID)
	m.mu.Unlock()

	conn, resp, err := m.dialer.Dial(addr, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close() //nolint:errcheck // handshake response body is not used
	}
	if err != nil {
		m.logger.Warn("realtime dial failed", "url", addr, "err", err)
		m.publishStatus(false)
		m.scheduleReconnect()
		return
	}

	m.mu.Lock()
	if m.stopped {
		// Disconnect raced the dial; drop the fresh connection.
		m.mu.Unlock()
		conn.Close() //nolint:errcheck
		return
	}
	m.conn = conn
	m.attempts = 0
	m.exhausted = false
	m.mu.Unlock()

	m.logger.Info("realtime connected", "user_id", userID)
	m.publishStatus(true)
	go m.readLoop(conn)
}

// Disconnect closes the active connection, cancels any pending reconnect
// timer and suppresses further automatic reconnection until the next
// Connect call.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.stopped = true
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		conn.Close() //nolint:errcheck
	}
	m.publishStatus(false)
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if jsonErr := json.Unmarshal(data, &msg); jsonErr != nil {
			// Non-JSON frames are transport heartbeats, not errors.
			continue
		}
		m.publishMessage(msg)
	}

	m.mu.Lock()
	if m.conn != conn {
		// Already replaced or torn down by Disconnect.
		m.mu.Unlock()
		return
	}
	m.conn = nil
	stopped := m.stopped
	m.mu.Unlock()

	conn.Close() //nolint:errcheck
	m.logger.Info("realtime disconnected")
	m.publishStatus(false)
	if !stopped {
		m.scheduleReconnect()
	}
}

func (m *Manager) scheduleReconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.attempts++
	if m.attempts >= m.maxRetries {
		m.exhausted = true
		m.logger.Warn("realtime reconnect budget exhausted", "attempts", m.attempts)
		return
	}
	userID := m.userID
	m.logger.Info("realtime reconnect scheduled", "attempt", m.attempts, "max", m.maxRetries)
	if m.retryTimer != nil {
		m.retryTimer.Stop()
	}
	m.retryTimer = time.AfterFunc(m.retryDelay, func() {
		m.Connect(userID)
	})
}

// publishStatus never blocks: when the consumer lags, the oldest queued
// state is dropped so the stream always converges on the latest value.
func (m *Manager) publishStatus(connected bool) {
	for {
		select {
		case m.statusCh <- connected:
			return
		default:
			select {
			case <-m.statusCh:
			default:
			}
		}
	}
}

func (m *Manager) publishMessage(msg Message) {
	select {
	case m.msgCh <- msg:
	default:
		m.logger.Warn("realtime message dropped, consumer lagging", "type", msg.Type)
	}
}
