package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Client wraps one websocket connection with a write lock. gorilla/websocket
// allows at most one concurrent writer per connection, and writes arrive from
// several goroutines at once (broadcasts from per-service monitor goroutines,
// the handler's ping loop, the welcome message), so every outbound frame must
// go through the lock.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WriteJSON sends one JSON message under the write lock.
func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

// Ping sends a ping control frame under the write lock.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Hub is the set of live observer connections. Membership mutation and
// iteration are guarded by the hub mutex; Publish is fire-and-forget and a
// failed write evicts only the client it failed on.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Add registers a connection and returns the Client handle all further
// writes to that connection must go through.
func (h *Hub) Add(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	return client
}

func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Publish sends an event envelope to every client. The client set is copied
// under the read lock so slow writes do not block membership changes.
func (h *Hub) Publish(event string, data interface{}) {
	h.mu.RLock()

	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}

	clientsCopy := make([]*Client, 0, len(h.clients))

	for client := range h.clients {
		clientsCopy = append(clientsCopy, client)
	}

	h.mu.RUnlock()

	message := map[string]interface{}{
		"type": event,
		"data": data,
	}

	for _, client := range clientsCopy {
		if err := client.WriteJSON(message); err != nil {
			log.Printf("Failed to broadcast %s to client: %v", event, err)
			h.Remove(client)
			client.Close()
		}
	}
}

// DefaultHub is the process-wide hub shared by the HTTP handlers and the
// monitoring scheduler.
var DefaultHub = NewHub()
