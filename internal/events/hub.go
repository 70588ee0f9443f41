package events

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/health"
	"github.com/gorilla/websocket"
)

const (
	TypeEntryUpdated = "entry.updated"
	TypeHealthState  = "health.state"

	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

// Event is one message pushed to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub fans tracker changes out to websocket clients. A client that cannot
// keep up is dropped instead of slowing the writer down.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	state   func() health.State
	cancels []func()
}

func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// originChecker allows requests without Origin and those whose origin is listed.
// "*" allows everything.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// Attach subscribes the hub to entry writes and authorization changes.
func (h *Hub) Attach(repo *entries.Repository, adapter *health.Adapter) {
	if repo != nil {
		h.cancels = append(h.cancels, repo.Subscribe(func(c entries.Change) {
			h.Broadcast(Event{Type: TypeEntryUpdated, Data: entries.ToDTO(c.Entry)})
		}))
	}
	if adapter != nil {
		h.state = adapter.State
		h.cancels = append(h.cancels, adapter.Subscribe(func(s health.State) {
			h.Broadcast(Event{Type: TypeHealthState, Data: health.StateResponse{State: s}})
		}))
	}
}

// Broadcast queues ev for every client without blocking.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			log.Printf("events: dropping slow client %s", c.conn.RemoteAddr())
			delete(h.clients, c)
			c.close()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP обрабатывает GET /v1/events
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("events: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	if h.state != nil {
		c.send <- Event{Type: TypeHealthState, Data: health.StateResponse{State: h.state()}}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards client messages and unregisters on disconnect.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(ev); err != nil {
			log.Printf("events: write failed: %v", err)
			h.remove(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Close unsubscribes and disconnects every client.
func (h *Hub) Close() {
	for _, cancel := range h.cancels {
		cancel()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
