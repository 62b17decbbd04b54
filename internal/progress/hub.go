// Package progress pushes upload progress to the browser over websockets.
//
// Each upload gets a ULID. The upload page opens /upload/{id}/progress before
// submitting the form; the handler that streams the file to the backend
// publishes events under the same id.
package progress

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"snapstream/internal/backend"
	"snapstream/internal/logging"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
)

// Event types sent to the page.
const (
	EventProgress = "progress"
	EventDone     = "done"
	EventFailed   = "failed"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewUploadID returns a fresh upload id.
func NewUploadID() string {
	return ulid.Make().String()
}

// ValidUploadID reports whether id was produced by NewUploadID.
func ValidUploadID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// Event is one message on the socket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type message struct {
	topic   string
	payload []byte
}

// Client is one connected upload page.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// Hub routes events to the clients watching an upload.
type Hub struct {
	topics     map[string]map[*Client]bool
	publish    chan message
	register   chan *Client
	unregister chan *Client
	last       *cache.Cache
	done       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a hub. The last event of every upload is kept for ttl so a
// page that connects late still sees where the upload stands.
func NewHub(ttl time.Duration) *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		publish:    make(chan message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		last:       cache.New(ttl, 2*ttl),
		done:       make(chan struct{}),
	}
}

// Run delivers events until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.topics {
				for c := range clients {
					close(c.send)
				}
			}
			h.topics = map[string]map[*Client]bool{}
			return
		case c := <-h.register:
			if h.topics[c.topic] == nil {
				h.topics[c.topic] = make(map[*Client]bool)
			}
			h.topics[c.topic][c] = true
			if v, ok := h.last.Get(c.topic); ok {
				c.send <- v.([]byte)
			}
			logging.Log.Debugf("progress: client watching upload %s", c.topic)
		case c := <-h.unregister:
			if clients, ok := h.topics[c.topic]; ok && clients[c] {
				delete(clients, c)
				close(c.send)
				if len(clients) == 0 {
					delete(h.topics, c.topic)
				}
			}
		case m := <-h.publish:
			h.last.SetDefault(m.topic, m.payload)
			for c := range h.topics[m.topic] {
				select {
				case c.send <- m.payload:
				default:
					close(c.send)
					delete(h.topics[m.topic], c)
				}
			}
		}
	}
}

// Publish sends an event to everyone watching topic.
func (h *Hub) Publish(topic, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logging.Log.Errorf("progress: failed to marshal %s event: %v", eventType, err)
		return
	}
	select {
	case h.publish <- message{topic: topic, payload: payload}:
	case <-h.done:
	}
}

// Reporter returns a progress callback for topic that publishes whenever the
// whole percentage changes.
func (h *Hub) Reporter(topic string) backend.ProgressFunc {
	var mu sync.Mutex
	lastPercent := -1.0
	return func(p backend.Progress) {
		whole := math.Floor(p.Percent)
		mu.Lock()
		if whole == lastPercent {
			mu.Unlock()
			return
		}
		lastPercent = whole
		mu.Unlock()
		h.Publish(topic, EventProgress, p)
	}
}

// ServeWs upgrades the request and subscribes the connection to topic.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Log.Warnf("progress: websocket upgrade failed: %v", err)
		return
	}
	c := &Client{hub: h, conn: conn, topic: topic, send: make(chan []byte, 16)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only watches for the page going away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
