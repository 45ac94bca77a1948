package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nliven/airsync/internal/app"
	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/config"
	"github.com/nliven/airsync/internal/metrics"
	"github.com/nliven/airsync/internal/repository"
	"github.com/nliven/airsync/internal/syncer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context) (syncer.FetchResult, error) {
	return syncer.FetchResult{StatusCode: 200, Body: []byte(`[]`)}, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *app.App) {
	t.Helper()

	store, err := repository.NewJSONStore(filepath.Join(t.TempDir(), "airports.json"))
	if err != nil {
		t.Fatalf("cannot init store: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutDownTimeout: 5 * time.Second,
			RequestTimeout:  time.Second,
		},
		Source: config.SourceConfig{URL: "http://example.test", State: "California", Format: "json", FetchTimeout: time.Second},
		Data:   config.DataConfig{FilePath: "unused"},
	}

	registry := prometheus.NewRegistry()
	m := metrics.New("airsync_test", registry)

	appCtx, err := app.New(cfg, store, bus.New(), m, stubFetcher{})
	if err != nil {
		t.Fatalf("cannot init app: %v", err)
	}
	t.Cleanup(appCtx.Shutdown)

	r := gin.New()
	SetupRoutes(r, appCtx, registry)
	return r, appCtx
}

func TestRoutes_Health(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["message"] != "UP" {
		t.Errorf("expected message 'UP', got '%s'", resp["message"])
	}
}

func TestRoutes_Airports(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/airports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRoutes_TriggerSync(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted && w.Code != http.StatusConflict {
		t.Errorf("expected status 202 or 409, got %d", w.Code)
	}
}

func TestRoutes_Metrics(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRoutes_UnknownPath(t *testing.T) {
	r, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
