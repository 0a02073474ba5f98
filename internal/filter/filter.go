package filter

import (
	"strings"

	"github.com/you/go-travel-flights/internal/flight"
)

// Flights returns the flights matching every supplied criterion, in their
// original order. The input slice is never modified.
func Flights(flights []flight.Flight, c Criteria) ([]flight.Flight, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	airlines := airlineSet(c.Airlines)
	result := make([]flight.Flight, 0, len(flights))
	for _, f := range flights {
		if matches(f, c, airlines) {
			result = append(result, f)
		}
	}
	return result, nil
}

func matches(f flight.Flight, c Criteria, airlines map[string]bool) bool {
	if len(f.Itinerary) == 0 {
		return false
	}

	if len(airlines) > 0 {
		found := false
		for _, code := range f.AirlineCodes {
			if airlines[strings.ToUpper(strings.TrimSpace(code))] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if c.MaxPrice != nil && f.PriceTotal > *c.MaxPrice {
		return false
	}

	dep := f.Departure()
	if c.Window != nil && !c.Window.Contains(dep.Time) {
		return false
	}
	if c.Dates != nil && !c.Dates.Contains(dep.Date) {
		return false
	}

	return true
}

// airlineSet upper-cases the requested codes and drops blanks. An empty result
// disables the airline criterion.
func airlineSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			set[code] = true
		}
	}
	return set
}
