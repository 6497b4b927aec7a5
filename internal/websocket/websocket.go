package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffered events per client before it is dropped as too slow
	sendBuffer = 256
)

// Event types published on the feed
const (
	EventQuestionCreated = "question_created"
	EventQuestionUpdated = "question_updated"
	EventQuestionDeleted = "question_deleted"
	EventAnswerAdded     = "answer_added"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Every origin is allowed, matching the HTTP CORS policy
	},
}

// Message represents a WebSocket message
type Message struct {
	Type       string          `json:"type"`
	QuestionID string          `json:"question_id"`
	Payload    json.RawMessage `json:"payload"`
}

// Client is a middleman between the websocket connection and the hub.
// An empty QuestionID subscribes to every question.
type Client struct {
	Hub        *Hub
	Conn       *websocket.Conn
	QuestionID string
	Send       chan []byte
}

// Hub maintains the set of active clients and fans events out to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed by Stop
	done chan struct{}

	// Mutex for thread-safe operations
	mu sync.Mutex
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
}

// Run processes registrations until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				h.remove(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every client and ends Run
func (h *Hub) Stop() {
	close(h.done)
}

// Publish sends an event to every client subscribed to the question. It never blocks:
// a client whose buffer is full is disconnected.
func (h *Hub) Publish(eventType string, questionID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("event", eventType).Error("failed to marshal event payload")
		return
	}

	messageBytes, err := json.Marshal(Message{
		Type:       eventType,
		QuestionID: questionID,
		Payload:    data,
	})
	if err != nil {
		logrus.WithError(err).WithField("event", eventType).Error("failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.QuestionID != "" && client.QuestionID != questionID {
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.remove(client)
		}
	}
}

// Subscribers returns the number of clients that would receive an event for the question
func (h *Hub) Subscribers(questionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for client := range h.clients {
		if client.QuestionID == "" || client.QuestionID == questionID {
			count++
		}
	}
	return count
}

// Register registers a new client with the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// remove must be called with h.mu held
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// ServeWS upgrades the request and subscribes the connection to the feed
func ServeWS(h *Hub, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		Hub:        h,
		Conn:       conn,
		QuestionID: r.URL.Query().Get("question_id"),
		Send:       make(chan []byte, sendBuffer),
	}
	h.Register(client)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
	return nil
}

// ReadPump keeps the connection alive and detects when the peer goes away.
// The feed is one-way, so inbound messages are discarded.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Debug("websocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
