package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"CafeMaemi/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	broadcastQueue = 64
	clientQueue    = 32
)

// Event types sent to dashboard clients.
const (
	EventSnapshot       = "snapshot"
	EventUploadProgress = "upload_progress"
)

// LiveEvent is one message on the admin feed.
type LiveEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// UploadProgress reports a running upload to the dashboard.
type UploadProgress struct {
	UploadID    string `json:"uploadId"`
	Collection  string `json:"collection"`
	Transferred int64  `json:"transferred"`
	Total       int64  `json:"total"`
}

// liveClient is one dashboard socket with its own outgoing queue, drained
// by a dedicated writer so a slow socket never holds up the hub.
type liveClient struct {
	conn *websocket.Conn
	send chan LiveEvent
}

func newLiveClient(conn *websocket.Conn) *liveClient {
	return &liveClient{conn: conn, send: make(chan LiveEvent, clientQueue)}
}

// writeLoop sends queued events until the hub closes the queue or a write
// fails; either way the socket is closed, which ends the read loop too.
func (cl *liveClient) writeLoop(logger *slog.Logger) {
	defer cl.conn.Close()
	for ev := range cl.send {
		if err := write(cl.conn, ev); err != nil {
			logger.Warn("live feed write failed", "error", err)
			return
		}
	}
}

// LiveHub pushes mirror snapshots and upload progress to connected
// dashboard sockets.
type LiveHub struct {
	clients    map[*liveClient]bool
	broadcast  chan LiveEvent
	register   chan *liveClient
	unregister chan *liveClient
	done       chan struct{}
	mu         sync.Mutex

	content *services.ContentService
	logger  *slog.Logger
}

func NewLiveHub(content *services.ContentService, logger *slog.Logger) *LiveHub {
	return &LiveHub{
		clients:    make(map[*liveClient]bool),
		broadcast:  make(chan LiveEvent, broadcastQueue),
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		done:       make(chan struct{}),
		content:    content,
		logger:     logger,
	}
}

// Run serves register, unregister and broadcast until ctx ends, then
// closes every socket. Only Run closes a client's queue.
func (h *LiveHub) Run(ctx context.Context) {
	go forward(ctx, h, h.content.Menu.Subscribe())
	go forward(ctx, h, h.content.Reviews.Subscribe())
	go forward(ctx, h, h.content.Gallery.Subscribe())

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for cl := range h.clients {
				h.dropLocked(cl)
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl] = true
			h.sendCurrentLocked(cl)
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(cl)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for cl := range h.clients {
				h.enqueueLocked(cl, ev)
			}
			h.mu.Unlock()
		}
	}
}

// enqueueLocked never blocks: a client whose queue is full is dropped.
func (h *LiveHub) enqueueLocked(cl *liveClient, ev LiveEvent) {
	select {
	case cl.send <- ev:
	default:
		h.logger.Warn("live feed client too slow, disconnecting", "type", ev.Type)
		h.dropLocked(cl)
	}
}

func (h *LiveHub) dropLocked(cl *liveClient) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}

// Publish queues an event, dropping it when the hub is saturated.
func (h *LiveHub) Publish(ev LiveEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("live feed queue full, dropping event", "type", ev.Type)
	}
}

// Progress returns a ProgressFunc that reports to the feed under uploadID.
func (h *LiveHub) Progress(uploadID, collection string) services.ProgressFunc {
	return func(transferred, total int64) {
		h.Publish(LiveEvent{Type: EventUploadProgress, Data: UploadProgress{
			UploadID:    uploadID,
			Collection:  collection,
			Transferred: transferred,
			Total:       total,
		}})
	}
}

// Clients returns the number of connected sockets.
func (h *LiveHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *LiveHub) sendCurrentLocked(cl *liveClient) {
	if snap, ok := h.content.Menu.Current(); ok {
		h.enqueueLocked(cl, LiveEvent{Type: EventSnapshot, Data: snap})
	}
	if snap, ok := h.content.Reviews.Current(); ok {
		h.enqueueLocked(cl, LiveEvent{Type: EventSnapshot, Data: snap})
	}
	if snap, ok := h.content.Gallery.Current(); ok {
		h.enqueueLocked(cl, LiveEvent{Type: EventSnapshot, Data: snap})
	}
}

func forward[T any](ctx context.Context, h *LiveHub, sub *services.Subscription[services.Snapshot[T]]) {
	defer sub.Cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			h.Publish(LiveEvent{Type: EventSnapshot, Data: snap})
		}
	}
}

func write(conn *websocket.Conn, ev LiveEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

// The default origin check only admits same-host pages.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleWebSocket upgrades an admin request onto the feed. Clients only
// listen; anything they send is discarded.
func (h *LiveHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("live feed upgrade failed", "error", err)
		return
	}
	cl := newLiveClient(conn)
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}
	go cl.writeLoop(h.logger)

	go func() {
		defer func() {
			select {
			case h.unregister <- cl:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
