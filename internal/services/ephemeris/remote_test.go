package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/pkg/config"
)

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Ephemeris.BaseURL = url
	cfg.Ephemeris.Retries = 2
	cfg.Ephemeris.Backoff = time.Millisecond
	return cfg
}

var j2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

func TestRemoteLongitudes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/longitudes" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req longitudesReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.JulianDay != 2451545.0 {
			t.Errorf("expected JD 2451545, got %v", req.JulianDay)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"longitudes": map[string]float64{"sun": 280.38, "moon": -136.68},
		})
	}))
	defer srv.Close()

	r := NewRemote(testConfig(t, srv.URL))
	got, err := r.Longitudes(context.Background(), j2000, []models.Body{models.Sun, models.Moon})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Body != models.Sun || got[1].Body != models.Moon {
		t.Fatalf("order not preserved: %+v", got)
	}
	if d := got[1].Longitude - 223.32; d > 1e-9 || d < -1e-9 {
		t.Fatalf("expected normalized 223.32, got %v", got[1].Longitude)
	}
	if r.Name() != models.StrategyRemote {
		t.Fatalf("unexpected strategy %s", r.Name())
	}
}

func TestRemoteAcceptsDisplayNameKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"longitudes": map[string]float64{"Sun": 10, " MOON ": 20, "vulcan": 30},
		})
	}))
	defer srv.Close()

	got, err := NewRemote(testConfig(t, srv.URL)).Longitudes(context.Background(), j2000, []models.Body{models.Sun, models.Moon})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Longitude != 10 || got[1].Longitude != 20 {
		t.Fatalf("unexpected longitudes %+v", got)
	}
}

func TestRemotePartialReplyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"longitudes":{"sun":10}}`))
	}))
	defer srv.Close()

	r := NewRemote(testConfig(t, srv.URL))
	if _, err := r.Longitudes(context.Background(), j2000, []models.Body{models.Sun, models.Mars}); err == nil {
		t.Fatalf("expected error for missing body")
	}
}

func TestRemoteRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"longitudes":{"sun":10}}`))
	}))
	defer srv.Close()

	r := NewRemote(testConfig(t, srv.URL))
	if _, err := r.Longitudes(context.Background(), j2000, []models.Body{models.Sun}); err != nil {
		t.Fatalf("expected success on third attempt: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRemoteClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	r := NewRemote(testConfig(t, srv.URL))
	if _, err := r.Longitudes(context.Background(), j2000, []models.Body{models.Sun}); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}

func TestRemoteRejectsUnknownBody(t *testing.T) {
	r := NewRemote(testConfig(t, "http://unused"))
	_, err := r.Longitudes(context.Background(), j2000, []models.Body{"Vulcan"})
	if !errors.Is(err, models.ErrUnsupportedBody) {
		t.Fatalf("expected ErrUnsupportedBody, got %v", err)
	}
	if _, err := r.Longitudes(context.Background(), time.Time{}, []models.Body{models.Sun}); !errors.Is(err, models.ErrInvalidInstant) {
		t.Fatalf("expected ErrInvalidInstant, got %v", err)
	}
}
