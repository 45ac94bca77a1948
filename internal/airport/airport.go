package airport

// Airport is a single record of the remote airport dataset.
// Code is the uniqueness key within the store.
type Airport struct {
	Code         string  `json:"code" validate:"required"`
	Icao         string  `json:"icao" validate:"required"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	RunwayLength *int64  `json:"runway_length"`
}
