package flight

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// ParseCivil reads an ISO-8601 style timestamp with or without seconds.
// Naive values are kept as they are. Values carrying an offset are moved onto
// the wall clock of loc, or keep their written wall clock when loc is nil.
func ParseCivil(s string, loc *time.Location) (civil.DateTime, error) {
	if dt, err := civil.ParseDateTime(s); err == nil {
		return dt, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", s); err == nil {
		return civil.DateTimeOf(t), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			if loc != nil {
				t = t.In(loc)
			}
			return civil.DateTimeOf(t), nil
		}
	}
	return civil.DateTime{}, fmt.Errorf("unsupported time format: %q", s)
}

// UnmarshalJSON accepts the timestamp forms ParseCivil does. Encoding is
// left to civil.DateTime, which always writes seconds.
func (s *Segment) UnmarshalJSON(b []byte) error {
	type plain Segment
	var raw struct {
		plain
		Dep string `json:"dep_time_local"`
		Arr string `json:"arr_time_local"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	dep, err := ParseCivil(raw.Dep, nil)
	if err != nil {
		return fmt.Errorf("dep_time_local: %w", err)
	}
	arr, err := ParseCivil(raw.Arr, nil)
	if err != nil {
		return fmt.Errorf("arr_time_local: %w", err)
	}

	*s = Segment(raw.plain)
	s.DepartureLocal = dep
	s.ArrivalLocal = arr
	return nil
}
