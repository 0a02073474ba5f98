package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var ErrInvalidCriterion = errors.New("invalid filter criterion")

// Criteria holds the optional filters. A nil pointer or an empty airline list
// means the criterion is not applied.
type Criteria struct {
	Airlines []string
	MaxPrice *float64
	Window   *TimeWindow
	Dates    *DateRange
}

// TimeWindow is an inclusive time-of-day interval. When Start is after End
// the window wraps past midnight.
type TimeWindow struct {
	Start civil.Time
	End   civil.Time
}

func (w TimeWindow) Wraps() bool {
	return w.Start.After(w.End)
}

func (w TimeWindow) Contains(t civil.Time) bool {
	if w.Wraps() {
		return !t.Before(w.Start) || !t.After(w.End)
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) String() string {
	return formatTimeOfDay(w.Start) + "-" + formatTimeOfDay(w.End)
}

// DateRange matches a single date when End is nil, otherwise the inclusive
// range [Start, End].
type DateRange struct {
	Start civil.Date
	End   *civil.Date
}

func (r DateRange) Contains(d civil.Date) bool {
	if r.End == nil {
		return d == r.Start
	}
	return !d.Before(r.Start) && !d.After(*r.End)
}

func (r DateRange) String() string {
	if r.End == nil {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

func (c Criteria) Validate() error {
	if c.MaxPrice != nil && (*c.MaxPrice < 0 || math.IsNaN(*c.MaxPrice)) {
		return fmt.Errorf("%w: max price %v", ErrInvalidCriterion, *c.MaxPrice)
	}
	if c.Window != nil && (!c.Window.Start.IsValid() || !c.Window.End.IsValid()) {
		return fmt.Errorf("%w: departure window %v-%v", ErrInvalidCriterion, c.Window.Start, c.Window.End)
	}
	if c.Dates != nil {
		if !c.Dates.Start.IsValid() {
			return fmt.Errorf("%w: date %v", ErrInvalidCriterion, c.Dates.Start)
		}
		if c.Dates.End != nil {
			if !c.Dates.End.IsValid() {
				return fmt.Errorf("%w: date %v", ErrInvalidCriterion, *c.Dates.End)
			}
			if c.Dates.End.Before(c.Dates.Start) {
				return fmt.Errorf("%w: date range %s ends before it starts", ErrInvalidCriterion, c.Dates)
			}
		}
	}
	return nil
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (civil.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.TimeOf(t), nil
		}
	}
	return civil.Time{}, fmt.Errorf("%w: time of day %q, use HH:MM", ErrInvalidCriterion, s)
}

// ParseTimeWindow parses "HH:MM-HH:MM".
func ParseTimeWindow(s string) (TimeWindow, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return TimeWindow{}, fmt.Errorf("%w: departure window %q, use HH:MM-HH:MM", ErrInvalidCriterion, s)
	}
	st, err := ParseTimeOfDay(start)
	if err != nil {
		return TimeWindow{}, err
	}
	et, err := ParseTimeOfDay(end)
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: st, End: et}, nil
}

// ParseDates parses a single date "YYYY-MM-DD" or a range
// "YYYY-MM-DD:YYYY-MM-DD".
func ParseDates(s string) (DateRange, error) {
	first, last, isRange := strings.Cut(strings.TrimSpace(s), ":")
	start, err := civil.ParseDate(strings.TrimSpace(first))
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: date %q, use YYYY-MM-DD", ErrInvalidCriterion, first)
	}
	r := DateRange{Start: start}
	if isRange {
		end, err := civil.ParseDate(strings.TrimSpace(last))
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: date %q, use YYYY-MM-DD", ErrInvalidCriterion, last)
		}
		r.End = &end
	}
	if err := (Criteria{Dates: &r}).Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func formatTimeOfDay(t civil.Time) string {
	if t.Second != 0 || t.Nanosecond != 0 {
		return t.String()
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
