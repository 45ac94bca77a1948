package airport

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DecodeError reports a payload that could not be turned into airport
// records. It aborts the whole batch: no partial record sequence is
// ever produced alongside it.
type DecodeError struct {
	Index int // element index, -1 for top-level structure errors
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("decode airports: %v", e.Err)
	}
	return fmt.Sprintf("decode airports: element %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// airportElement mirrors one element of the remote payload. All fields
// are pointers so a missing field is distinguishable from a zero value;
// required-ness is enforced by the validator after unmarshalling.
type airportElement struct {
	Code         *string  `json:"code" validate:"required"`
	Icao         *string  `json:"icao" validate:"required"`
	Name         *string  `json:"name" validate:"required"`
	City         *string  `json:"city" validate:"required"`
	State        *string  `json:"state" validate:"required"`
	Lat          *float64 `json:"lat" validate:"required"`
	Lon          *float64 `json:"lon" validate:"required"`
	RunwayLength *int64   `json:"runway_length"`
	URL          *string  `json:"url" validate:"required"`
}

var elementValidator = validator.New()

// Decode parses a raw response body holding a JSON array of airport
// objects into records, preserving element order. Any structural
// problem (non-array root, missing required field, mistyped field)
// fails the whole batch with a *DecodeError.
//
// The upstream dataset carries both an "icao" and a "url" field, and
// consumers of this store historically read the URL out of the record's
// Icao slot. Both fields are still required, but the persisted Icao
// value is the URL.
func Decode(body []byte) ([]Airport, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}

	airports := make([]Airport, 0, len(raw))
	for i, msg := range raw {
		var el airportElement
		if err := json.Unmarshal(msg, &el); err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}
		if err := elementValidator.Struct(&el); err != nil {
			return nil, &DecodeError{Index: i, Err: err}
		}

		a := Airport{
			Code:      *el.Code,
			Icao:      *el.Icao,
			Name:      *el.Name,
			City:      *el.City,
			State:     *el.State,
			Latitude:  *el.Lat,
			Longitude: *el.Lon,
		}
		// null runway_length stays absent, never zero
		if el.RunwayLength != nil {
			v := *el.RunwayLength
			a.RunwayLength = &v
		}
		a.Icao = *el.URL

		airports = append(airports, a)
	}
	return airports, nil
}
