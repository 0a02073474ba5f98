package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/civil"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/filter"
	"github.com/you/go-travel-flights/internal/flight"
	"github.com/you/go-travel-flights/internal/providers"
	"github.com/you/go-travel-flights/internal/rank"
)

var ErrMissingDate = errors.New("a travel date or date range is required")

// MaxRangeDays caps how many departure days one search may span. Remote
// providers send one upstream request per day.
const MaxRangeDays = 31

func checkSpan(start civil.Date, end *civil.Date) error {
	if end == nil {
		return nil
	}
	if days := end.DaysSince(start) + 1; days > MaxRangeDays {
		return fmt.Errorf("%w: date range spans %d days, at most %d allowed",
			filter.ErrInvalidCriterion, days, MaxRangeDays)
	}
	return nil
}

// Query is one fully parsed search: what to ask the provider for, how to
// narrow the answer and how to order it.
type Query struct {
	Params   providers.Params
	Criteria filter.Criteria
	SortBy   rank.Key
}

type SearchService struct {
	provider providers.FlightProvider
}

func NewSearchService(p providers.FlightProvider) *SearchService {
	return &SearchService{provider: p}
}

// FromConfig builds the service around the provider selected by cfg.
func FromConfig(cfg *config.Config) (*SearchService, error) {
	p, err := providers.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewSearchService(p), nil
}

func (s *SearchService) ProviderName() string {
	return s.provider.Name()
}

// Run calls the provider once, then filters and sorts what it returned.
// Provider errors are returned unchanged. A search that matches nothing
// yields an empty slice and no error.
func (s *SearchService) Run(ctx context.Context, q Query) ([]flight.Flight, error) {
	if q.Params.DepartureDate == (civil.Date{}) {
		return nil, ErrMissingDate
	}
	if !q.Params.DepartureDate.IsValid() {
		return nil, fmt.Errorf("%w: date %v", filter.ErrInvalidCriterion, q.Params.DepartureDate)
	}
	if err := checkSpan(q.Params.DepartureDate, q.Params.EndDate); err != nil {
		return nil, err
	}
	if err := q.Criteria.Validate(); err != nil {
		return nil, err
	}
	if q.SortBy == "" {
		q.SortBy = rank.ByPrice
	}
	if !q.SortBy.Valid() {
		return nil, fmt.Errorf("%w: %q", rank.ErrInvalidSortKey, q.SortBy)
	}

	flights, err := s.provider.Search(ctx, q.Params)
	if err != nil {
		return nil, err
	}

	matched, err := filter.Flights(flights, q.Criteria)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: %d flights, %d after filters", s.provider.Name(), len(flights), len(matched))

	return rank.Sort(matched, q.SortBy)
}
