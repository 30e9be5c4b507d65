package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"planner-server/logging"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Client is one open notification socket. Writes are serialized because a
// websocket.Conn supports a single concurrent writer.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send writes one text frame to this socket.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Manager keeps track of the open notification sockets of each user.
type Manager struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // userID -> sockets
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a socket for userID. A user may hold several at once.
func (m *Manager) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{conn: conn}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[userID] = set
	}
	set[client] = struct{}{}
	return client
}

// Unregister closes and forgets one socket of userID.
func (m *Manager) Unregister(userID string, client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.clients[userID]
	if !ok {
		return
	}
	if _, ok := set[client]; ok {
		_ = client.conn.Close()
		delete(set, client)
	}
	if len(set) == 0 {
		delete(m.clients, userID)
	}
}

// SendToUser writes payload to every socket of userID and returns how many
// writes succeeded. Failed sockets are dropped.
func (m *Manager) SendToUser(userID string, payload []byte) int {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.clients[userID]))
	for c := range m.clients[userID] {
		targets = append(targets, c)
	}
	m.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if err := c.Send(payload); err != nil {
			m.logger.Debug("drop notification socket", logging.Err(err), slog.String(logging.KeyUserID, userID))
			m.Unregister(userID, c)
			continue
		}
		sent++
	}
	return sent
}

// CountMessage is pushed whenever a user's due-task count may have changed.
type CountMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// NotifyDueCount pushes the due-task count to every socket of userID.
func (m *Manager) NotifyDueCount(userID string, count int) {
	if !m.IsConnected(userID) {
		return
	}
	b, err := json.Marshal(CountMessage{Type: "notification_count", Count: count})
	if err != nil {
		return
	}
	m.SendToUser(userID, b)
}

// IsConnected returns whether userID has at least one open socket.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// Connections returns the number of open sockets across all users.
func (m *Manager) Connections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, set := range m.clients {
		n += len(set)
	}
	return n
}

// CloseAll closes every socket, used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, set := range m.clients {
		for c := range set {
			_ = c.conn.Close()
		}
		delete(m.clients, userID)
	}
}
