package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/notify"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Outgoing messages buffered per client before it is dropped
	sendBuffer = 32
)

// MessageType names a dashboard push message
type MessageType string

const (
	MessageToast   MessageType = "toast"
	MessageRecord  MessageType = "record"
	MessageTheme   MessageType = "theme"
	MessageSidebar MessageType = "sidebar"
)

// Message is the JSON envelope written to WebSocket clients
type Message struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// client is one connected browser. Only writePump writes to conn.
type client struct {
	id         string
	remoteAddr string
	conn       *websocket.Conn
	send       chan []byte
	closeOnce  sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// handleWebSocket upgrades the request and streams dashboard events until
// the client goes away
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		id:         uuid.NewString(),
		remoteAddr: r.RemoteAddr,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
	}

	count := s.registerClient(c)

	s.metrics.SetClients(count)
	logging.LogConnection(c.remoteAddr, "websocket_connected")

	go s.writePump(c)
	s.readPump(c)
}

// registerClient queues the dashboard snapshot for c and adds it to the
// broadcast set in one critical section, so no broadcast falls between the
// two. It returns the new client count.
func (s *Server) registerClient(c *client) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.snapshotMessages() {
		if data, err := json.Marshal(msg); err == nil {
			c.send <- data
		}
	}
	s.clients[c.id] = c
	return len(s.clients)
}

// snapshotMessages returns the full dashboard state for a new client
func (s *Server) snapshotMessages() []Message {
	msgs := []Message{
		{Type: MessageRecord, Data: s.model("")},
		{Type: MessageTheme, Data: newThemeResponse(s.themes.Theme())},
		{Type: MessageSidebar, Data: s.sidebar.Snapshot()},
	}
	if t, ok := s.toasts.Current(); ok {
		msgs = append(msgs, Message{Type: MessageToast, Data: toastEvent(t)})
	}
	return msgs
}

func toastEvent(t notify.Toast) notify.Event {
	return notify.Event{Type: notify.EventShow, Toast: t}
}

// readPump discards client input and detects disconnects
func (s *Server) readPump(c *client) {
	defer s.removeClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug("WebSocket read error",
					zap.String("client", c.id),
					zap.Error(err),
				)
			}
			return
		}
	}
}

// writePump is the only goroutine writing to the client's connection
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug("WebSocket write failed",
					zap.String("client", c.id),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	delete(s.clients, c.id)
	count := len(s.clients)
	s.mu.Unlock()

	if !ok {
		return
	}
	c.close()
	s.metrics.SetClients(count)
	logging.LogConnection(c.remoteAddr, "websocket_closed")
}

// broadcast queues msg for every client. A client whose buffer is full is
// disconnected rather than blocking the sender.
func (s *Server) broadcast(t MessageType, data interface{}) {
	payload, err := json.Marshal(Message{Type: t, Data: data})
	if err != nil {
		logging.Error("Failed to encode push message",
			zap.String("type", string(t)),
			zap.Error(err),
		)
		return
	}

	var slow []*client

	s.mu.Lock()
	for _, c := range s.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.Unlock()

	for _, c := range slow {
		logging.Warn("Dropping slow WebSocket client", zap.String("client", c.id))
		s.removeClient(c)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		s.removeClient(c)
	}
}
