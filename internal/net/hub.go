package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"LocalInk/internal/state"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var ErrHubClosed = errors.New("share hub closed")

// Message is sent to every viewer. Revision increases with each published
// snapshot so viewers can drop stale ones.
type Message struct {
	Type     string         `json:"type"`
	Revision uint64         `json:"revision"`
	Drawing  *state.Drawing `json:"drawing,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub serves drawing snapshots to websocket viewers on the local network.
// Viewers only receive; anything they send is discarded.
type Hub struct {
	upgrader websocket.Upgrader
	revision atomic.Uint64

	// publishing holds Publish calls in revision order
	publishing sync.Mutex

	mu      sync.RWMutex
	clients map[*client]bool
	last    []byte
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			// LAN viewers open the page from any host name
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]bool),
	}
}

// Publish sends d to every connected viewer and keeps it for viewers that
// connect later.
func (h *Hub) Publish(d state.Drawing) error {
	h.publishing.Lock()
	defer h.publishing.Unlock()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	msg := Message{Type: "snapshot", Revision: h.revision.Load() + 1, Drawing: &d}
	data, err := json.Marshal(msg)
	if err != nil {
		h.mu.Unlock()
		return fmt.Errorf("publish: %w", err)
	}
	h.revision.Store(msg.Revision)
	h.last = data
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.send(data); err != nil {
			log.Printf("[SHARE] Dropping viewer %s: %v", c.conn.RemoteAddr(), err)
			h.remove(c)
		}
	}
	return nil
}

// Revision returns the revision of the last published snapshot.
func (h *Hub) Revision() uint64 { return h.revision.Load() }

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] Upgrade failed: %v", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = true
	last := h.last
	h.mu.Unlock()
	log.Printf("[SHARE] Viewer connected from %s", conn.RemoteAddr())

	if last != nil {
		if err := c.send(last); err != nil {
			h.remove(c)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("[SHARE] Viewer %s disconnected: %v", conn.RemoteAddr(), err)
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Close disconnects every viewer and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]bool)
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "host closed"),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		c.conn.Close()
	}
	return nil
}

// Follow connects to a hub at url and calls fn with every snapshot until ctx
// is done or the connection fails. Snapshots older than one already seen
// are skipped.
func Follow(ctx context.Context, url string, fn func(Message)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("follow %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var seen uint64
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("follow %s: %w", url, err)
		}
		if msg.Revision <= seen {
			continue
		}
		seen = msg.Revision
		fn(msg)
	}
}
