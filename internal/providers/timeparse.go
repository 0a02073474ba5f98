package providers

import (
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// parseISODurationMinutes handles the subset upstream APIs send: PT2H10M,
// PT150M, P1DT2H.
func parseISODurationMinutes(s string) int {
	s = strings.TrimPrefix(strings.ToUpper(s), "P")
	total := 0
	var num strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			num.WriteRune(r)
			continue
		}
		v, _ := strconv.Atoi(num.String())
		num.Reset()
		switch r {
		case 'D':
			total += v * 24 * 60
		case 'H':
			total += v * 60
		case 'M':
			total += v
		}
	}
	return total
}

// departureDates lists every date from p.DepartureDate through p.EndDate.
func departureDates(p Params) []civil.Date {
	if p.EndDate == nil || !p.EndDate.After(p.DepartureDate) {
		return []civil.Date{p.DepartureDate}
	}
	var out []civil.Date
	for d := p.DepartureDate; !d.After(*p.EndDate); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func minutesBetween(dep, arr civil.DateTime) int {
	return int(arr.In(time.UTC).Sub(dep.In(time.UTC)) / time.Minute)
}
