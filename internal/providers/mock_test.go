package providers

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/you/go-travel-flights/internal/flight"
)

func TestMockReturnsEmbeddedDataset(t *testing.T) {
	m := NewMock("")
	flights, err := m.Search(context.Background(), Params{Origin: "OSL", Destination: "PER"})
	require.NoError(t, err)
	require.Len(t, flights, 8)

	for _, f := range flights {
		require.NoError(t, f.Validate())
		require.Equal(t, "OSL", f.Origin())
		require.Equal(t, "PER", f.Destination())
		require.Equal(t, "NOK", f.Currency)
	}
}

func TestMockIsDeterministic(t *testing.T) {
	m := NewMock("")
	a, err := m.Search(context.Background(), Params{})
	require.NoError(t, err)
	b, err := m.Search(context.Background(), Params{})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMockReadsFixtureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	doc := `{"flights":[{"price_total":1234.5,"currency":"NOK","airline_codes":["SK"],"itinerary":[
		{"from_airport":"OSL","to_airport":"CPH","dep_time_local":"2025-12-10T06:45:00","arr_time_local":"2025-12-10T07:55:00","duration_minutes":70,"flight_number":"SK1455","airline_code":"SK"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	flights, err := NewMock(path).Search(context.Background(), Params{})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	require.Equal(t, 1234.5, flights[0].PriceTotal)
}

func TestMockDataUnavailable(t *testing.T) {
	_, err := NewMock(filepath.Join(t.TempDir(), "missing.json")).Search(context.Background(), Params{})
	require.ErrorIs(t, err, ErrDataUnavailable)
	require.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"flights": [{`), 0o600))
	_, err = NewMock(path).Search(context.Background(), Params{})
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestMockKeepsValidationCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	doc := `{"flights":[{"price_total":1,"currency":"NOK","airline_codes":["SK","EK"],"itinerary":[
		{"from_airport":"OSL","to_airport":"CPH","dep_time_local":"2025-12-10T06:45","arr_time_local":"2025-12-10T07:55","duration_minutes":70,"flight_number":"SK1455","airline_code":"SK"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := NewMock(path).Search(context.Background(), Params{})
	require.ErrorIs(t, err, ErrDataUnavailable)
	require.ErrorIs(t, err, flight.ErrAirlineUnused)
}

func TestMockRejectsMalformedTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	doc := `{"flights":[{"price_total":1,"currency":"NOK","itinerary":[
		{"from_airport":"OSL","to_airport":"CPH","dep_time_local":"2025-12-10 06:45","arr_time_local":"2025-12-10T07:55","duration_minutes":70,"flight_number":"SK1455","airline_code":"SK"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err := NewMock(path).Search(context.Background(), Params{})
	require.ErrorIs(t, err, ErrDataUnavailable)
	require.ErrorContains(t, err, "dep_time_local")
}

func TestMockHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMock("").Search(ctx, Params{})
	require.ErrorIs(t, err, context.Canceled)
}
