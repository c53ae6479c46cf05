package events

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mini-social/api-go/models"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

var ErrHubFull = errors.New("activity hub buffer is full")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn is the part of *websocket.Conn the hub uses.
type wsConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type client struct {
	conn wsConn
}

// Hub pushes activity to connected WebSocket clients. Only Run writes to
// client connections; each client has its own read loop to notice closes.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan models.ActivityLog
}

func NewHub(buffer int) *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan models.ActivityLog, buffer),
	}
}

// Run delivers queued activity until ctx is cancelled, then closes all clients.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.conn.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case activity := <-h.broadcast:
			h.send(activity)
		}
	}
}

// send never holds mu while writing to a connection.
func (h *Hub) send(activity models.ActivityLog) {
	for _, c := range h.snapshot() {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(activity); err != nil {
			log.WithError(err).Debug("dropping websocket client")
			h.unregister(c)
			c.conn.Close()
		}
	}
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// Publish never blocks; when the buffer is full the activity is dropped.
func (h *Hub) Publish(_ context.Context, activity models.ActivityLog) error {
	select {
	case h.broadcast <- activity:
		return nil
	default:
		return ErrHubFull
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn}
	h.register(c)
	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
