package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/you/go-travel-flights/internal/config"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"":              KindMock,
		"MOCK":          KindMock,
		" amadeus ":     KindAmadeus,
		"duffel":        KindDuffel,
		"Kiwi":          KindKiwi,
		"rapid-booking": KindRapidBooking,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseKind("skyscanner")
	require.Error(t, err)
}

func TestNewFallsBackToMockWithoutCredentials(t *testing.T) {
	for _, kind := range []string{"mock", "amadeus", "duffel", "kiwi", "rapid-booking"} {
		p, err := New(&config.Config{Provider: kind})
		require.NoError(t, err)
		require.Equal(t, "mock", p.Name(), kind)
	}
}

func TestNewBuildsRateLimitedRemote(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.Provider = "kiwi"
	cfg.ProviderRPS = 2
	cfg.ProviderBurst = 1

	p, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, "kiwi", p.Name())
	k, ok := p.(*Kiwi)
	require.True(t, ok)
	require.IsType(t, &limitedTransport{}, k.client.Transport)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(&config.Config{Provider: "nope"})
	require.Error(t, err)
}

func TestRateLimitedClientDisabled(t *testing.T) {
	require.Same(t, http.DefaultClient, RateLimitedClient(http.DefaultClient, 0, 5))

	c := RateLimitedClient(http.DefaultClient, 10, 0)
	require.NotSame(t, http.DefaultClient, c)
	require.Nil(t, http.DefaultClient.Transport)
	lt, ok := c.Transport.(*limitedTransport)
	require.True(t, ok)
	require.Equal(t, 1, lt.limiter.Burst())
}

func TestRateLimitedClientChargesEveryDayOfARange(t *testing.T) {
	var searchCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		searchCalls.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAmadeus(testConfig(srv.URL))
	a.client = RateLimitedClient(srv.Client(), 0.001, 10)

	end := dec10().AddDays(2)
	_, err := a.Search(context.Background(), Params{DepartureDate: dec10(), EndDate: &end})
	require.NoError(t, err)
	require.EqualValues(t, 3, searchCalls.Load())

	// one token request plus one search per day
	left := a.client.Transport.(*limitedTransport).limiter.Tokens()
	require.InDelta(t, 6, left, 0.1)
}

func TestRateLimitedClientContextEndsMidRange(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"offers":[]}}`))
	}))
	defer srv.Close()

	d := NewDuffel(testConfig(srv.URL))
	d.client = RateLimitedClient(srv.Client(), 0.01, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	end := dec10().AddDays(2)
	_, err := d.Search(ctx, Params{DepartureDate: dec10(), EndDate: &end})

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "duffel", pe.Provider)
	require.EqualValues(t, 2, calls.Load())
}

func TestParseISODurationMinutes(t *testing.T) {
	for in, want := range map[string]int{
		"PT2H10M": 130,
		"PT150M":  150,
		"P1DT2H":  1560,
		"PT45M":   45,
		"":        0,
	} {
		require.Equal(t, want, parseISODurationMinutes(in), in)
	}
}

func TestDepartureDates(t *testing.T) {
	start := civil.Date{Year: 2025, Month: time.December, Day: 30}
	require.Equal(t, []civil.Date{start}, departureDates(Params{DepartureDate: start}))

	end := civil.Date{Year: 2026, Month: time.January, Day: 1}
	require.Equal(t, []civil.Date{
		start,
		{Year: 2025, Month: time.December, Day: 31},
		end,
	}, departureDates(Params{DepartureDate: start, EndDate: &end}))
}
