package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/soocke/gaze-go/domain/gaze"
)

// Server timeouts
const (
	ReadTimeout  = 10 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second

	writeWait   = 5 * time.Second
	sendBacklog = 64
)

// Engine is the engine surface the bridge drives.
type Engine interface {
	gaze.Inbound
	gaze.Commands
	gaze.Observable
}

// Options configure the bridge.
type Options struct {
	EnableCORS bool
	// MinimumCaptureQuality classifies score-based quality frames.
	MinimumCaptureQuality float64
	// MaxFrameRate caps landmark and pose frames per second per client.
	// Frames above the rate are dropped. Zero disables the limit.
	MaxFrameRate float64
}

// frameBurst returns the limiter burst for rate: a quarter second of frames.
func frameBurst(r float64) int {
	if b := int(r / 4); b > 1 {
		return b
	}
	return 1
}

// Bridge connects sensor clients over websocket to the engine and streams
// engine events back to every connected client.
type Bridge struct {
	logger *slog.Logger
	engine Engine
	opts   Options

	mu    sync.Mutex
	conns map[*wsConnection]struct{}

	dropped atomic.Uint64
}

type wsConnection struct {
	conn    *websocket.Conn
	send    chan []byte
	once    sync.Once
	limiter *rate.Limiter // nil when unlimited
}

// NewBridge subscribes to engine events and returns the bridge.
func NewBridge(engine Engine, opts Options, logger *slog.Logger) *Bridge {
	b := &Bridge{logger: logger, engine: engine, opts: opts, conns: make(map[*wsConnection]struct{})}
	engine.Subscribe(b.broadcast)
	return b
}

// Handler returns the HTTP routes: "/" banner, "/ws" websocket and
// "/state" snapshot.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", b.sendBanner)
	mux.HandleFunc("/ws", b.handleWebSocket)
	mux.HandleFunc("/state", b.handleState)
	var handler http.Handler = mux
	if b.opts.EnableCORS {
		handler = corsMiddleware(mux)
	}
	return handler
}

// ListenAndServe serves until ctx is cancelled.
func (b *Bridge) ListenAndServe(ctx context.Context, addr string) error {
	addr, err := normalizeAddr(addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      b.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	if b.logger != nil {
		b.logger.Info("sensor bridge listening", "addr", "http://"+addr)
	}
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		b.closeAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// normalizeAddr accepts a bare port and defaults the host to all interfaces.
func normalizeAddr(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}
	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}
	return fmt.Sprintf(":%d", port), nil
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Bridge) sendBanner(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("gaze-go sensor bridge\n"))
}

func (b *Bridge) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(b.engine.Snapshot()); err != nil && b.logger != nil {
		b.logger.Warn("state encode failed", "error", err)
	}
}

func (b *Bridge) newUpgrader() *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if b.opts.EnableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}
	return &upgrader
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return originURL.Host == r.Host
}

func (b *Bridge) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.newUpgrader().Upgrade(w, r, nil)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("websocket upgrade failed", "error", err)
		}
		return
	}
	c := &wsConnection{conn: conn, send: make(chan []byte, sendBacklog)}
	if r := b.opts.MaxFrameRate; r > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(r), frameBurst(r))
	}
	b.add(c)
	go b.writeLoop(c)
	defer b.remove(c)

	if b.logger != nil {
		b.logger.Info("sensor client connected", "remote", r.RemoteAddr)
	}
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if b.logger != nil {
				b.logger.Debug("websocket connection closed", "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			b.sendError(c, errors.New("only text messages accepted"))
			continue
		}
		b.handleMessage(c, message)
	}
}

func (b *Bridge) handleMessage(c *wsConnection, message []byte) {
	var f Frame
	if err := json.Unmarshal(message, &f); err != nil {
		b.sendError(c, fmt.Errorf("parse error: %w", err))
		return
	}
	// Sensor frames are superseded by the next one, so over-rate frames are
	// dropped silently. Commands and state changes always pass.
	if f.isSensor() && c.limiter != nil && !c.limiter.Allow() {
		if b.dropped.Add(1)%100 == 1 && b.logger != nil {
			b.logger.Debug("sensor frames over rate limit dropped", "total", b.dropped.Load())
		}
		return
	}
	if err := f.Apply(b.engine, b.opts.MinimumCaptureQuality); err != nil {
		b.sendError(c, err)
	}
}

func (b *Bridge) sendError(c *wsConnection, err error) {
	data, mErr := json.Marshal(newErrorFrame(err))
	if mErr != nil {
		return
	}
	b.enqueue(c, data)
}

// broadcast is the engine subscriber. Slow clients drop events rather than
// stall the engine's callback queue.
func (b *Bridge) broadcast(ev gaze.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("event encode failed", "kind", string(ev.Kind), "error", err)
		}
		return
	}
	b.mu.Lock()
	conns := make([]*wsConnection, 0, len(b.conns))
	for c := range b.conns {
		conns = append(conns, c)
	}
	b.mu.Unlock()
	for _, c := range conns {
		b.enqueue(c, data)
	}
}

func (b *Bridge) enqueue(c *wsConnection, data []byte) {
	defer func() {
		// send on a connection closed concurrently
		_ = recover()
	}()
	select {
	case c.send <- data:
	default:
		if b.logger != nil {
			b.logger.Debug("dropping message for slow client")
		}
	}
}

func (b *Bridge) writeLoop(c *wsConnection) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			if b.logger != nil {
				b.logger.Debug("websocket write failed", "error", err)
			}
			b.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (b *Bridge) add(c *wsConnection) {
	b.mu.Lock()
	b.conns[c] = struct{}{}
	b.mu.Unlock()
}

func (b *Bridge) remove(c *wsConnection) {
	b.mu.Lock()
	delete(b.conns, c)
	b.mu.Unlock()
	c.once.Do(func() { close(c.send) })
}

func (b *Bridge) closeAll() {
	b.mu.Lock()
	conns := make([]*wsConnection, 0, len(b.conns))
	for c := range b.conns {
		conns = append(conns, c)
	}
	b.mu.Unlock()
	for _, c := range conns {
		b.remove(c)
	}
}

// DroppedFrames returns the number of sensor frames discarded by the
// per-client rate limit.
func (b *Bridge) DroppedFrames() uint64 { return b.dropped.Load() }

// Clients returns the number of connected clients.
func (b *Bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.conns)
}
