package rank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/you/go-travel-flights/internal/flight"
)

var ErrInvalidSortKey = errors.New("invalid sort key")

type Key string

const (
	ByPrice     Key = "price"
	ByDuration  Key = "duration"
	ByDeparture Key = "departure"
)

var Keys = []Key{ByPrice, ByDuration, ByDeparture}

// ParseKey is case-insensitive; an empty string selects ByPrice.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ByPrice, nil
	}
	k := Key(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q (use price, duration or departure)", ErrInvalidSortKey, s)
	}
	return k, nil
}

func (k Key) Valid() bool {
	switch k {
	case ByPrice, ByDuration, ByDeparture:
		return true
	}
	return false
}

// Sort returns a new slice ordered ascending by key. Ties keep their input
// order.
func Sort(flights []flight.Flight, key Key) ([]flight.Flight, error) {
	var less func(a, b flight.Flight) bool
	switch key {
	case ByPrice:
		less = func(a, b flight.Flight) bool { return a.PriceTotal < b.PriceTotal }
	case ByDuration:
		less = func(a, b flight.Flight) bool { return a.TotalDuration() < b.TotalDuration() }
	case ByDeparture:
		less = func(a, b flight.Flight) bool { return a.Departure().Before(b.Departure()) }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, key)
	}

	sorted := append(make([]flight.Flight, 0, len(flights)), flights...)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted, nil
}
