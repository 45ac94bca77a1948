package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nliven/airsync/internal/airport"
	"github.com/nliven/airsync/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockReader implements repository.Reader for testing
type mockReader struct {
	airports []airport.Airport
	err      error
}

func (m *mockReader) All(ctx context.Context) ([]airport.Airport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.airports, nil
}

func (m *mockReader) Get(ctx context.Context, code string) (airport.Airport, error) {
	if m.err != nil {
		return airport.Airport{}, m.err
	}
	for _, a := range m.airports {
		if a.Code == code {
			return a, nil
		}
	}
	return airport.Airport{}, repository.ErrNotFound
}

func TestAirportController_ListAirports(t *testing.T) {
	runway := int64(11870)
	store := &mockReader{
		airports: []airport.Airport{
			{Code: "SFO", Icao: "http://x/sfo", Name: "San Francisco Intl", City: "San Francisco", State: "CA", Latitude: 37.6, Longitude: -122.37, RunwayLength: &runway},
			{Code: "MRY", Icao: "http://x/mry", Name: "Monterey", City: "Monterey", State: "CA", Latitude: 36.58, Longitude: -121.84},
		},
	}

	ac := NewAirportController(store)

	r := gin.New()
	r.GET("/airports", ac.ListAirports)

	req := httptest.NewRequest(http.MethodGet, "/airports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Count    int               `json:"count"`
		Airports []airport.Airport `json:"airports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if resp.Count != 2 {
		t.Errorf("expected count 2, got %d", resp.Count)
	}
	if len(resp.Airports) != 2 {
		t.Fatalf("expected 2 airports, got %d", len(resp.Airports))
	}
	if resp.Airports[0].Code != "SFO" {
		t.Errorf("expected code 'SFO', got '%s'", resp.Airports[0].Code)
	}
	if resp.Airports[0].RunwayLength == nil || *resp.Airports[0].RunwayLength != 11870 {
		t.Errorf("expected runway_length 11870, got %v", resp.Airports[0].RunwayLength)
	}
	if resp.Airports[1].RunwayLength != nil {
		t.Error("expected absent runway_length to serialize as null")
	}
}

func TestAirportController_ListAirports_Empty(t *testing.T) {
	ac := NewAirportController(&mockReader{})

	r := gin.New()
	r.GET("/airports", ac.ListAirports)

	req := httptest.NewRequest(http.MethodGet, "/airports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["count"].(float64) != 0 {
		t.Errorf("expected count 0, got %v", resp["count"])
	}
}

func TestAirportController_GetAirport(t *testing.T) {
	store := &mockReader{
		airports: []airport.Airport{
			{Code: "MRY", Icao: "http://x/mry", Name: "Monterey", City: "Monterey", State: "CA"},
		},
	}
	ac := NewAirportController(store)

	r := gin.New()
	r.GET("/airport/:code", ac.GetAirport)

	req := httptest.NewRequest(http.MethodGet, "/airport/MRY", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got airport.Airport
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.City != "Monterey" {
		t.Errorf("expected city 'Monterey', got '%s'", got.City)
	}
}

func TestAirportController_GetAirport_NotFound(t *testing.T) {
	ac := NewAirportController(&mockReader{})

	r := gin.New()
	r.GET("/airport/:code", ac.GetAirport)

	req := httptest.NewRequest(http.MethodGet, "/airport/ZZZ", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestAirportController_ListAirports_StoreError(t *testing.T) {
	ac := NewAirportController(&mockReader{err: errors.New("disk fault")})

	r := gin.New()
	r.GET("/airports", ac.ListAirports)

	req := httptest.NewRequest(http.MethodGet, "/airports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
