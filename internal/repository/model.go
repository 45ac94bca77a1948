package repository

import (
	"encoding/json"

	"github.com/nliven/airsync/internal/airport"
)

// Metadata holds versioning info for the persisted data file.
type Metadata struct {
	LastUpdate int64 `json:"lastUpdate"` // Unix timestamp in milliseconds
}

// Document represents the persisted JSON structure: the airport
// collection from the most recent successful sync plus metadata.
type Document struct {
	Metadata Metadata          `json:"metadata"`
	Airports []airport.Airport `json:"airports" validate:"dive"`
}

// ApplyDefaults sets fallback values after decode.
func (d *Document) ApplyDefaults() {
	if d.Airports == nil {
		d.Airports = []airport.Airport{}
	}
}

// cloneAirports deep-copies a record slice so cached and returned
// slices never share backing storage or pointer fields.
func cloneAirports(airports []airport.Airport) ([]airport.Airport, error) {
	bytes, err := json.Marshal(airports)
	if err != nil {
		return nil, err
	}
	copied := []airport.Airport{}
	if err := json.Unmarshal(bytes, &copied); err != nil {
		return nil, err
	}
	return copied, nil
}
