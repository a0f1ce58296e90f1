package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
	streamSendBuffer = 8
)

// StreamGauge receives the number of connected stream clients.
type StreamGauge interface {
	StreamClients(n int)
}

type StreamConfig struct {
	Snapshots      SnapshotReader
	AllowedOrigins []string
	Logger         *logging.Logger
	Gauge          StreamGauge
}

type streamMessage struct {
	Type string            `json:"type"`
	Data usecase.Dashboard `json:"data"`
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() { close(c.send) })
}

// StreamHub pushes every published dashboard to connected websocket clients.
// A client whose send queue is full is disconnected rather than slowing the
// publisher down.
type StreamHub struct {
	upgrader  websocket.Upgrader
	snapshots SnapshotReader
	logger    *logging.Logger
	gauge     StreamGauge

	mu      sync.Mutex
	clients map[*streamClient]struct{}
	closed  bool
}

func NewStreamHub(cfg StreamConfig) *StreamHub {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	h := &StreamHub{
		snapshots: cfg.Snapshots,
		logger:    logger,
		gauge:     cfg.Gauge,
		clients:   make(map[*streamClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

func (h *StreamHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish implements usecase.Sink.
func (h *StreamHub) Publish(_ context.Context, dashboard usecase.Dashboard) error {
	msg, err := encodeStreamMessage(dashboard)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("stream client too slow, disconnecting", "remote_addr", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
	return nil
}

func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "stream upgrade failed", "error", err)
		return
	}

	client := &streamClient{conn: conn, send: make(chan []byte, streamSendBuffer)}
	if h.snapshots != nil {
		if current, err := h.snapshots.Dashboard(r.Context()); err == nil {
			if msg, err := encodeStreamMessage(current); err == nil {
				client.send <- msg
			}
		}
	}
	if !h.add(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(streamWriteWait))
		_ = conn.Close()
		return
	}
	h.logger.Info("stream client connected", "client_ip", resolveClientIP(r), "clients", h.Clients())

	go h.writePump(client)
	h.readPump(client)
}

// Close disconnects every client and rejects new ones.
func (h *StreamHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *StreamHub) add(c *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.reportLocked()
	return true
}

func (h *StreamHub) remove(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *StreamHub) removeLocked(c *streamClient) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.reportLocked()
}

func (h *StreamHub) reportLocked() {
	if h.gauge != nil {
		h.gauge.StreamClients(len(h.clients))
	}
}

// readPump only services control frames; clients are not expected to send.
func (h *StreamHub) readPump(c *streamClient) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHub) writePump(c *streamClient) {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encodeStreamMessage(dashboard usecase.Dashboard) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(streamMessage{Type: "dashboard", Data: dashboard}); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	allowMap := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		candidate := strings.TrimSpace(origin)
		if candidate == "*" {
			allowAll = true
		}
		if candidate != "" {
			allowMap[candidate] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" || allowAll {
			return true
		}
		_, ok := allowMap[origin]
		return ok
	}
}
