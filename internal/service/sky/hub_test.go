package sky

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"HashClock/internal/domain/models"
	"HashClock/internal/services/astro"
)

var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSnapshot(t *testing.T) {
	h := NewHub(astro.NewEphemeris())
	snap, err := h.Snapshot(context.Background(), j2000)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Planets) != len(models.Bodies) {
		t.Fatalf("expected %d planets, got %d", len(models.Bodies), len(snap.Planets))
	}
	if sun := snap.Planets["Sun"]; sun.Sign != "Capricorn" {
		t.Fatalf("expected Capricorn sun at J2000, got %+v", sun)
	}
	// moon 223.3 - sun 280.4
	if snap.MoonPhase < 302 || snap.MoonPhase > 303.5 {
		t.Fatalf("unexpected moon phase %.2f", snap.MoonPhase)
	}
	if snap.Strategy != "ephemeris" {
		t.Fatalf("unexpected strategy %s", snap.Strategy)
	}
}

func TestServeStreamsLatest(t *testing.T) {
	h := NewHub(astro.NewApproxEphemeris(), WithClock(func() time.Time { return j2000 }), WithMaxPeers(1))
	h.tick(context.Background())

	srv := httptest.NewServer(h)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap models.SkySnapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read: %v", err)
	}
	if snap.Strategy != "simplified" || !snap.At.Equal(j2000) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	h.Broadcast([]byte(`{"ping":1}`))
	_, msg, err := conn.ReadMessage()
	if err != nil || !json.Valid(msg) || !strings.Contains(string(msg), "ping") {
		t.Fatalf("broadcast not received: %s %v", msg, err)
	}

	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil || resp == nil || resp.StatusCode != 503 {
		t.Fatalf("second peer should be refused with 503")
	}
}
