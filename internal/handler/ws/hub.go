package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	"StratScan/pkg/config"
	applogger "StratScan/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// SignalHub streams every scan result to connected websocket clients on
// /ws/signals. It is registered as a scanner sink and as an HTTP handler.
type SignalHub struct {
	cfg    config.WebSocketConfig
	logger *applogger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
}

var _ domrepo.SignalSink = (*SignalHub)(nil)

func NewSignalHub(cfg config.WebSocketConfig, logger *applogger.Logger) *SignalHub {
	if logger == nil {
		logger = applogger.Nop()
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 8
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &SignalHub{
		cfg:     cfg,
		logger:  logger.With(applogger.String("component", "ws_hub")),
		clients: make(map[*client]struct{}),
	}
}

func (h *SignalHub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signals", h.Serve)
}

func (h *SignalHub) Name() string { return "websocket" }

// Clients reports the number of connected clients.
func (h *SignalHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve upgrades the request and replays the latest scan result to the new client.
func (h *SignalHub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	cl := &client{conn: conn, send: make(chan []byte, h.cfg.SendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	h.clients[cl] = struct{}{}
	if h.last != nil {
		cl.send <- h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", applogger.Int("clients", n))

	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

// readPump discards inbound frames and unregisters the client once the peer goes away.
func (h *SignalHub) readPump(cl *client) {
	defer h.remove(cl)
	cl.conn.SetReadLimit(1024)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *SignalHub) writePump(cl *client) {
	ping := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ping.Stop()
		_ = cl.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(cl)
				return
			}
		case <-ping.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(cl)
				return
			}
		}
	}
}

func (h *SignalHub) remove(cl *client) {
	h.mu.Lock()
	_, ok := h.clients[cl]
	delete(h.clients, cl)
	h.mu.Unlock()
	if ok {
		cl.close()
	}
}

// Publish fans res out to every client. A client whose buffer is full is
// disconnected rather than allowed to stall the scanner.
func (h *SignalHub) Publish(_ context.Context, res *models.ScanResult) error {
	msg, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode scan result: %w", err)
	}

	h.mu.Lock()
	h.last = msg
	var slow []*client
	for cl := range h.clients {
		select {
		case cl.send <- msg:
		default:
			slow = append(slow, cl)
			delete(h.clients, cl)
		}
	}
	h.mu.Unlock()

	for _, cl := range slow {
		cl.close()
	}
	if len(slow) > 0 {
		h.logger.Warn("dropped slow websocket clients", applogger.Int("count", len(slow)))
	}
	return nil
}

// Close disconnects every client and refuses new ones.
func (h *SignalHub) Close() error {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for cl := range clients {
		cl.close()
	}
	return nil
}
