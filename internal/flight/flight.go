package flight

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	ErrNoSegments     = errors.New("flight has no segments")
	ErrNegativePrice  = errors.New("flight price must be a non-negative number")
	ErrSegmentOrder   = errors.New("segment arrives before it departs")
	ErrNegativeLength = errors.New("segment duration must not be negative")
	ErrAirlineMissing = errors.New("segment airline not listed on flight")
	ErrAirlineUnused  = errors.New("flight lists an airline no segment flies")
)

// Segment is one flown leg. Timestamps are civil date-times authored in a
// single fixed zone; no offset conversion happens after construction.
type Segment struct {
	From           string         `json:"from_airport"`
	To             string         `json:"to_airport"`
	DepartureLocal civil.DateTime `json:"dep_time_local"`
	ArrivalLocal   civil.DateTime `json:"arr_time_local"`
	DurationMin    int            `json:"duration_minutes"`
	FlightNumber   string         `json:"flight_number"`
	AirlineCode    string         `json:"airline_code"`
}

func (s Segment) Validate() error {
	if s.ArrivalLocal.Before(s.DepartureLocal) {
		return fmt.Errorf("%s %s-%s: %w", s.FlightNumber, s.From, s.To, ErrSegmentOrder)
	}
	if s.DurationMin < 0 {
		return fmt.Errorf("%s %s-%s: %w", s.FlightNumber, s.From, s.To, ErrNegativeLength)
	}
	return nil
}

// Flight is one priced itinerary. Values are built once by a provider and
// treated as read-only afterwards.
type Flight struct {
	PriceTotal   float64   `json:"price_total"`
	Currency     string    `json:"currency"`
	AirlineCodes []string  `json:"airline_codes"`
	Itinerary    []Segment `json:"itinerary"`
	BookingLink  *string   `json:"booking_link,omitempty"`
}

// New builds a Flight, deriving the airline codes from the segments in
// first-seen order.
func New(price float64, currency string, itinerary []Segment, bookingLink *string) (Flight, error) {
	f := Flight{
		PriceTotal:   price,
		Currency:     currency,
		AirlineCodes: SegmentAirlines(itinerary),
		Itinerary:    append([]Segment(nil), itinerary...),
		BookingLink:  bookingLink,
	}
	if err := f.Validate(); err != nil {
		return Flight{}, err
	}
	return f, nil
}

// SegmentAirlines returns the distinct, upper-cased airline codes of the
// segments in itinerary order.
func SegmentAirlines(itinerary []Segment) []string {
	seen := make(map[string]bool, len(itinerary))
	codes := make([]string, 0, len(itinerary))
	for _, s := range itinerary {
		code := strings.ToUpper(strings.TrimSpace(s.AirlineCode))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

func (f Flight) Validate() error {
	if len(f.Itinerary) == 0 {
		return ErrNoSegments
	}
	if f.PriceTotal < 0 || math.IsNaN(f.PriceTotal) || math.IsInf(f.PriceTotal, 0) {
		return fmt.Errorf("%w: %v", ErrNegativePrice, f.PriceTotal)
	}
	for _, s := range f.Itinerary {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.AirlineCode != "" && !f.HasAnyAirline(s.AirlineCode) {
			return fmt.Errorf("%s: %w: %s", s.FlightNumber, ErrAirlineMissing, s.AirlineCode)
		}
	}
	flown := Flight{AirlineCodes: SegmentAirlines(f.Itinerary)}
	for _, code := range f.AirlineCodes {
		if !flown.HasAnyAirline(code) {
			return fmt.Errorf("%w: %s", ErrAirlineUnused, code)
		}
	}
	return nil
}

// HasAnyAirline reports whether one of the flight's airline codes matches one
// of codes, ignoring case.
func (f Flight) HasAnyAirline(codes ...string) bool {
	for _, have := range f.AirlineCodes {
		for _, want := range codes {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
	}
	return false
}

func (f Flight) Origin() string      { return f.Itinerary[0].From }
func (f Flight) Destination() string { return f.Itinerary[len(f.Itinerary)-1].To }

// Departure is the departure time of the first segment.
func (f Flight) Departure() civil.DateTime { return f.Itinerary[0].DepartureLocal }

// Arrival is the arrival time of the last segment.
func (f Flight) Arrival() civil.DateTime { return f.Itinerary[len(f.Itinerary)-1].ArrivalLocal }

// TotalDuration is overall arrival minus overall departure on the civil
// clock, layovers included.
func (f Flight) TotalDuration() time.Duration {
	return f.Arrival().In(time.UTC).Sub(f.Departure().In(time.UTC))
}

func (f Flight) TotalMinutes() int {
	return int(f.TotalDuration() / time.Minute)
}

func (f Flight) Stops() int {
	return len(f.Itinerary) - 1
}
