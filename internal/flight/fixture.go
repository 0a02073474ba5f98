package flight

import (
	"encoding/json"
	"fmt"
	"io"
)

// Fixture is the on-disk document shape shared by the mock dataset and the
// round-trip tests.
type Fixture struct {
	Flights []Flight `json:"flights"`
}

// DecodeFixture reads a fixture document. Flights without airline codes get
// them derived from their segments; every flight is validated.
func DecodeFixture(r io.Reader) ([]Flight, error) {
	var doc Fixture
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	out := make([]Flight, 0, len(doc.Flights))
	for i, f := range doc.Flights {
		if len(f.AirlineCodes) == 0 {
			f.AirlineCodes = SegmentAirlines(f.Itinerary)
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("fixture flight %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func EncodeFixture(w io.Writer, flights []Flight) error {
	if flights == nil {
		flights = []Flight{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Fixture{Flights: flights})
}
