package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danmuck/coresim/internal/sim"
	"github.com/danmuck/coresim/internal/testutil/testlog"
)

func newTestAdmin(t *testing.T) *Admin {
	t.Helper()
	logger := testlog.Start(t)

	cfg := sim.DefaultConfig()
	cfg.Logger = logger
	cfg.Workload.Instructions = 10
	simulator, err := sim.New(cfg)
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}
	return New(":0", simulator, nil, logger)
}

func TestHealthzRoute(t *testing.T) {
	admin := newTestAdmin(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	admin.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestStatusRouteReportsCounters(t *testing.T) {
	admin := newTestAdmin(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	admin.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var snap sim.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Issued != 0 || snap.Retired != 0 {
		t.Fatalf("idle simulator should report zero counters: %+v", snap)
	}
}

func TestMetricsRouteServesPrometheus(t *testing.T) {
	admin := newTestAdmin(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	admin.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() == 0 {
		t.Fatalf("metrics body should not be empty")
	}
}
