package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/you/go-travel-flights/internal/airline"
	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/filter"
	"github.com/you/go-travel-flights/internal/providers"
	"github.com/you/go-travel-flights/internal/rank"
)

var ErrConflictingDates = errors.New("use either a date or a date range, not both")

// Request is search input as typed by a user, before any parsing.
type Request struct {
	Origin      string
	Destination string
	Date        string // YYYY-MM-DD
	DateRange   string // YYYY-MM-DD:YYYY-MM-DD
	Adults      int
	Cabin       string
	Airlines    string // comma separated codes or names
	MaxPrice    *float64
	DepWindow   string // HH:MM-HH:MM
	Sort        string
}

// Query validates r and fills blanks from cfg.
func (r Request) Query(cfg *config.Config) (Query, error) {
	date := strings.TrimSpace(r.Date)
	dateRange := strings.TrimSpace(r.DateRange)
	switch {
	case date != "" && dateRange != "":
		return Query{}, ErrConflictingDates
	case date == "" && dateRange == "":
		return Query{}, ErrMissingDate
	case date != "" && strings.Contains(date, ":"):
		return Query{}, fmt.Errorf("%w: date %q, use YYYY-MM-DD", filter.ErrInvalidCriterion, date)
	}

	dates, err := filter.ParseDates(date + dateRange)
	if err != nil {
		return Query{}, err
	}
	if dateRange != "" && dates.End == nil {
		return Query{}, fmt.Errorf("%w: date range %q, use YYYY-MM-DD:YYYY-MM-DD", filter.ErrInvalidCriterion, dateRange)
	}
	if err := checkSpan(dates.Start, dates.End); err != nil {
		return Query{}, err
	}

	crit := filter.Criteria{
		Airlines: airline.Normalize(r.Airlines),
		MaxPrice: r.MaxPrice,
		Dates:    &dates,
	}
	if w := strings.TrimSpace(r.DepWindow); w != "" {
		win, err := filter.ParseTimeWindow(w)
		if err != nil {
			return Query{}, err
		}
		crit.Window = &win
	}
	if err := crit.Validate(); err != nil {
		return Query{}, err
	}

	key, err := rank.ParseKey(r.Sort)
	if err != nil {
		return Query{}, err
	}

	params := providers.Params{
		Origin:        strings.ToUpper(strings.TrimSpace(r.Origin)),
		Destination:   strings.ToUpper(strings.TrimSpace(r.Destination)),
		DepartureDate: dates.Start,
		EndDate:       dates.End,
		Adults:        max(r.Adults, 1),
		Cabin:         strings.ToLower(strings.TrimSpace(r.Cabin)),
	}
	if cfg != nil {
		if params.Origin == "" {
			params.Origin = cfg.Origin
		}
		if params.Destination == "" {
			params.Destination = cfg.Destination
		}
		params.Currency = cfg.DefaultCurrency
	}
	if params.Cabin == "" {
		params.Cabin = "economy"
	}

	return Query{Params: params, Criteria: crit, SortBy: key}, nil
}
