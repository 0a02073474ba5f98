package rank

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/you/go-travel-flights/internal/flight"
)

func testFlight(t *testing.T, number string, price float64, dep, arr string) flight.Flight {
	t.Helper()
	d, err := civil.ParseDateTime(dep)
	require.NoError(t, err)
	a, err := civil.ParseDateTime(arr)
	require.NoError(t, err)
	f, err := flight.New(price, "NOK", []flight.Segment{{
		From: "OSL", To: "PER", DepartureLocal: d, ArrivalLocal: a,
		FlightNumber: number, AirlineCode: number[:2],
	}}, nil)
	require.NoError(t, err)
	return f
}

func numbers(flights []flight.Flight) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.Itinerary[0].FlightNumber)
	}
	return out
}

func fixtures(t *testing.T) []flight.Flight {
	return []flight.Flight{
		testFlight(t, "EK160", 11000, "2025-12-10T09:15:00", "2025-12-11T03:55:00"), // 18h40
		testFlight(t, "QR176", 8950, "2025-12-10T07:30:00", "2025-12-11T02:50:00"),  // 19h20
		testFlight(t, "QF10", 9500, "2025-12-09T23:50:00", "2025-12-10T17:00:00"),   // 17h10
		testFlight(t, "SQ351", 8950, "2025-12-10T06:45:00", "2025-12-11T07:40:00"),  // 24h55
		testFlight(t, "BA765", 12850, "2025-12-10T07:30:00", "2025-12-11T02:10:00"), // 18h40
	}
}

func TestSortByPrice(t *testing.T) {
	out, err := Sort(fixtures(t), ByPrice)
	require.NoError(t, err)
	// QR176 and SQ351 tie at 8950 and keep their input order
	require.Equal(t, []string{"QR176", "SQ351", "QF10", "EK160", "BA765"}, numbers(out))
}

func TestSortByDuration(t *testing.T) {
	out, err := Sort(fixtures(t), ByDuration)
	require.NoError(t, err)
	require.Equal(t, []string{"QF10", "EK160", "BA765", "QR176", "SQ351"}, numbers(out))
}

func TestSortByDepartureUsesFullTimestamp(t *testing.T) {
	out, err := Sort(fixtures(t), ByDeparture)
	require.NoError(t, err)
	// QF10 departs late on the previous day, so it sorts first despite 23:50
	require.Equal(t, []string{"QF10", "SQ351", "QR176", "BA765", "EK160"}, numbers(out))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := fixtures(t)
	before := numbers(in)

	_, err := Sort(in, ByPrice)
	require.NoError(t, err)
	require.Equal(t, before, numbers(in))
}

func TestSortEmpty(t *testing.T) {
	out, err := Sort(nil, ByDuration)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestSortInvalidKey(t *testing.T) {
	_, err := Sort(fixtures(t), Key("stops"))
	require.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"", ByPrice, false},
		{"price", ByPrice, false},
		{"Duration", ByDuration, false},
		{" DEPARTURE ", ByDeparture, false},
		{"best_value", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSortKey)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
