package sky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
	svcmetrics "HashClock/internal/service/metrics"
	"HashClock/internal/services/astro"
	applogger "HashClock/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 4
)

var ErrHubFull = errors.New("sky: too many peers")

type peer struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() { close(p.send) })
}

// Hub pushes the current sky to every connected websocket client at a fixed
// interval. A client that cannot keep up is disconnected.
type Hub struct {
	provider service.EphemerisProvider
	interval time.Duration
	maxPeers int
	upgrader websocket.Upgrader
	now      func() time.Time
	l        *applogger.Logger

	mu     sync.Mutex
	peers  map[*peer]struct{}
	latest []byte
}

type Option func(*Hub)

func WithInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.interval = d
		}
	}
}

func WithMaxPeers(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxPeers = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

func WithLogger(l *applogger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.l = l
		}
	}
}

func NewHub(provider service.EphemerisProvider, opts ...Option) *Hub {
	h := &Hub{
		provider: provider,
		interval: 10 * time.Second,
		maxPeers: 256,
		now:      time.Now,
		l:        applogger.Nop(),
		peers:    make(map[*peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.l = h.l.With(applogger.String("component", "sky_hub"))
	return h
}

// Snapshot computes longitudes for every body at t.
func (h *Hub) Snapshot(ctx context.Context, t time.Time) (models.SkySnapshot, error) {
	lons, err := h.provider.Longitudes(ctx, t, models.Bodies)
	if err != nil {
		return models.SkySnapshot{}, fmt.Errorf("sky snapshot: %w", err)
	}
	snap := models.SkySnapshot{
		At:       t.UTC(),
		Strategy: string(h.provider.Name()),
		Planets:  make(map[string]models.PlanetData, len(lons)),
	}
	var sun, moon float64
	for _, cl := range lons {
		sign := astro.SignOf(cl.Longitude)
		snap.Planets[string(cl.Body)] = models.PlanetData{
			Longitude: cl.Longitude,
			Sign:      sign.Name,
			Degree:    astro.DegreeInSign(cl.Longitude),
			Glyph:     sign.Glyph,
		}
		switch cl.Body {
		case models.Sun:
			sun = cl.Longitude
		case models.Moon:
			moon = cl.Longitude
		}
	}
	snap.MoonPhase = astro.Normalize(moon - sun)
	return snap, nil
}

// Run broadcasts until ctx is done, then disconnects every peer.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer h.closeAll()

	h.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Hub) tick(ctx context.Context) {
	snap, err := h.Snapshot(ctx, h.now())
	if err != nil {
		h.l.Warn("sky tick failed", applogger.Error(err))
		return
	}
	b, err := json.Marshal(snap)
	if err != nil {
		h.l.Error("encode sky snapshot", applogger.Error(err))
		return
	}
	h.Broadcast(b)
}

// Broadcast sends msg to every peer and remembers it for new connections.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for p := range h.peers {
		select {
		case p.send <- msg:
		default:
			delete(h.peers, p)
			p.close()
		}
	}
	svcmetrics.SkyBroadcasts.Inc()
	svcmetrics.SkyClients.Set(float64(len(h.peers)))
}

func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) register(p *peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.peers) >= h.maxPeers {
		return ErrHubFull
	}
	h.peers[p] = struct{}{}
	if h.latest != nil {
		p.send <- h.latest
	}
	svcmetrics.SkyClients.Set(float64(len(h.peers)))
	return nil
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		p.close()
	}
	svcmetrics.SkyClients.Set(float64(len(h.peers)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		delete(h.peers, p)
		p.close()
	}
	svcmetrics.SkyClients.Set(0)
}

// ServeHTTP upgrades the request and streams snapshots until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Peers() >= h.maxPeers {
		http.Error(w, ErrHubFull.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Debug("websocket upgrade failed", applogger.Error(err))
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}
	if err := h.register(p); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	go h.writePump(p)
	h.readPump(p)
}

// readPump discards client frames and keeps the connection alive via pongs.
func (h *Hub) readPump(p *peer) {
	defer h.unregister(p)
	p.conn.SetReadLimit(512)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
