package lifefeed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kellsaro/golife/life"
)

// Frame is one generation as pushed to connected viewers.
type Frame struct {
	Generation int          `json:"generation"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Alive      []life.Coord `json:"alive"`
}

// FeedConfig holds broadcaster configuration.
type FeedConfig struct {
	PingInterval  time.Duration
	SendQueueSize int
}

// DefaultFeedConfig returns the default configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		PingInterval:  30 * time.Second,
		SendQueueSize: 16,
	}
}

type client struct {
	id        int64
	conn      *websocket.Conn
	sendQueue chan []byte
}

// Broadcaster pushes generation frames to every connected WebSocket
// viewer. It satisfies the grid server's Observer interface, so wiring is
// a single AddObserver call. Viewers are read-only; anything they send is
// discarded.
type Broadcaster struct {
	config   FeedConfig
	upgrader websocket.Upgrader
	clients  map[int64]*client
	nextID   int64
	closed   bool
	mutex    sync.RWMutex
}

// NewBroadcaster creates a broadcaster with no connected viewers.
func NewBroadcaster(config FeedConfig) *Broadcaster {
	defaults := DefaultFeedConfig()
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	if config.SendQueueSize <= 0 {
		config.SendQueueSize = defaults.SendQueueSize
	}
	return &Broadcaster{
		config:  config,
		clients: make(map[int64]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // In production, implement proper origin checking
			},
		},
	}
}

// ServeHTTP upgrades the request and streams frames until the viewer
// disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("lifefeed: upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:      conn,
		sendQueue: make(chan []byte, b.config.SendQueueSize),
	}

	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()
		conn.Close()
		return
	}
	b.nextID++
	c.id = b.nextID
	b.clients[c.id] = c
	b.mutex.Unlock()

	go b.sender(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.remove(c)
}

func (b *Broadcaster) sender(c *client) {
	ticker := time.NewTicker(b.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.sendQueue:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (b *Broadcaster) remove(c *client) {
	b.mutex.Lock()
	delete(b.clients, c.id)
	b.mutex.Unlock()
	c.conn.Close()
}

// OnGenerationUpdate marshals a frame for the new generation and fans it
// out. A viewer whose queue is full skips the frame; the caller never
// blocks on a slow connection.
func (b *Broadcaster) OnGenerationUpdate(generation int, grid life.Grid) {
	frame := Frame{
		Generation: generation,
		Width:      grid.Width(),
		Height:     grid.Height(),
		Alive:      make([]life.Coord, 0, grid.CountAlive()),
	}
	for _, cell := range grid.AliveCells() {
		frame.Alive = append(frame.Alive, life.Coord{X: cell.X, Y: cell.Y})
	}

	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("lifefeed: marshal frame: %v", err)
		return
	}

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	for _, c := range b.clients {
		select {
		case c.sendQueue <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected viewers.
func (b *Broadcaster) ClientCount() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.clients)
}

// Close disconnects every viewer and rejects new connections.
func (b *Broadcaster) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.closed = true
	for id, c := range b.clients {
		c.conn.Close()
		delete(b.clients, id)
	}
}
