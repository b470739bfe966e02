// Package server provides the HTTP surface of the scheduled analysis
// service: health, metrics, status, and a WebSocket push channel that
// broadcasts run summaries to connected clients.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"dividend-recovery-lab/internal/pipeline"
)

// HubConfig configures WebSocket hub behavior.
type HubConfig struct {
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// SendBuffer is the per-client outbound message buffer.
	SendBuffer int
}

// DefaultHubConfig returns default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
		SendBuffer:   16,
	}
}

// RunNotification is the JSON message pushed to WebSocket clients after
// each completed analysis run.
type RunNotification struct {
	Type          string    `json:"type"`
	Symbol        string    `json:"symbol"`
	GeneratedAt   time.Time `json:"generated_at"`
	AnalyzedCount int       `json:"analyzed_count"`
	SkippedCount  int       `json:"skipped_count"`
	RecoveredPct  float64   `json:"recovered_pct"`
	Correlations  int       `json:"correlations"`
	DurationMs    int64     `json:"duration_ms"`
	OutputFiles   []string  `json:"output_files,omitempty"`
}

// NewRunNotification builds a notification from a pipeline run result.
func NewRunNotification(res *pipeline.RunResult) RunNotification {
	return RunNotification{
		Type:          "analysis_run",
		Symbol:        res.Symbol,
		GeneratedAt:   res.Report.GeneratedAt,
		AnalyzedCount: res.Report.DataSummary.AnalyzedCount,
		SkippedCount:  res.Report.DataSummary.SkippedCount,
		RecoveredPct:  res.Report.RecoveryStats.WinRate * 100,
		Correlations:  len(res.Report.Correlations),
		DurationMs:    res.Duration.Milliseconds(),
		OutputFiles:   res.OutputFiles,
	}
}

// Hub manages connected WebSocket clients and fans out broadcasts.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new hub. logger may be nil for silent operation.
func NewHub(config *HubConfig, logger *log.Logger) *Hub {
	cfg := DefaultHubConfig()
	if config != nil {
		cfg = *config
	}

	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
		done:    make(chan struct{}),
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// HandleWS upgrades the request and registers the connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logf("ws upgrade: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logf("ws client connected (%d total)", n)

	h.wg.Add(2)
	go h.writeLoop(c)
	go h.readLoop(c)
}

// Broadcast marshals v as JSON and sends it to every connected client.
// Clients that cannot keep up are disconnected rather than blocking the
// broadcaster.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logf("ws marshal broadcast: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logf("ws client too slow, dropping")
			h.removeLocked(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients and stops the hub.
func (h *Hub) Close() error {
	if h.closed.Swap(true) {
		return nil // Already closed
	}

	close(h.done)

	h.mu.Lock()
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// removeLocked unregisters a client. Caller holds h.mu.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(h.config.WriteTimeout))
	c.conn.Close()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// writeLoop drains the client's send channel and keeps the connection
// alive with periodic pings.
func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		case <-h.done:
			return
		}
	}
}

// readLoop discards inbound messages and detects disconnects.
func (h *Hub) readLoop(c *client) {
	defer h.wg.Done()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if !h.closed.Load() {
				h.remove(c)
			}
			return
		}
	}
}
