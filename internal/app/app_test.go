package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nliven/airsync/internal/airport"
	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/config"
	"github.com/nliven/airsync/internal/syncer"
)

// mockStore implements repository.AirportStore for testing
type mockStore struct {
	airports       []airport.Airport
	watcherStarted bool
	watcherErr     error
}

func (m *mockStore) All(ctx context.Context) ([]airport.Airport, error) {
	return m.airports, nil
}

func (m *mockStore) Get(ctx context.Context, code string) (airport.Airport, error) {
	for _, a := range m.airports {
		if a.Code == code {
			return a, nil
		}
	}
	return airport.Airport{}, errors.New("not found")
}

func (m *mockStore) DeleteAll(ctx context.Context) error {
	m.airports = nil
	return nil
}

func (m *mockStore) Insert(ctx context.Context, a airport.Airport) error {
	m.airports = append(m.airports, a)
	return nil
}

func (m *mockStore) ReplaceAll(ctx context.Context, airports []airport.Airport) error {
	m.airports = airports
	return nil
}

func (m *mockStore) StartWatcher(ctx context.Context) error {
	if m.watcherErr != nil {
		return m.watcherErr
	}
	m.watcherStarted = true
	return nil
}

type mockFetcher struct{}

func (m *mockFetcher) Fetch(ctx context.Context) (syncer.FetchResult, error) {
	return syncer.FetchResult{StatusCode: 200, Body: []byte(`[]`)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutDownTimeout: 5 * time.Second,
		},
		Source: config.SourceConfig{
			URL:          "http://example.test/v1/airports",
			State:        "California",
			Format:       "json",
			FetchTimeout: time.Second,
		},
		Data: config.DataConfig{
			FilePath: "/tmp/airports.json",
		},
	}
}

func TestNew_Success(t *testing.T) {
	a, err := New(testConfig(), &mockStore{}, bus.New(), nil, &mockFetcher{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Syncer == nil {
		t.Error("expected syncer to be wired")
	}
	if a.BaseCtx == nil {
		t.Error("expected base context to be set")
	}
	a.Shutdown()

	select {
	case <-a.BaseCtx.Done():
	default:
		t.Error("expected base context to be canceled after Shutdown")
	}
}

func TestNew_NilDependencies(t *testing.T) {
	store := &mockStore{}
	b := bus.New()
	f := &mockFetcher{}

	if _, err := New(nil, store, b, nil, f); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := New(testConfig(), nil, b, nil, f); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := New(testConfig(), store, nil, nil, f); err == nil {
		t.Error("expected error for nil bus")
	}
	if _, err := New(testConfig(), store, b, nil, nil); err == nil {
		t.Error("expected error for nil fetcher")
	}
}

func TestStartBackground_StartsWatcher(t *testing.T) {
	store := &mockStore{}
	a, err := New(testConfig(), store, bus.New(), nil, &mockFetcher{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Shutdown()

	if err := a.StartBackground(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.watcherStarted {
		t.Error("expected watcher to be started")
	}
}

func TestStartBackground_WatcherError(t *testing.T) {
	store := &mockStore{watcherErr: errors.New("watch failed")}
	a, err := New(testConfig(), store, bus.New(), nil, &mockFetcher{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Shutdown()

	if err := a.StartBackground(); err == nil {
		t.Error("expected watcher error to propagate")
	}
}
