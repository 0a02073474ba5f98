package providers

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"

	"github.com/you/go-travel-flights/internal/flight"
)

var (
	ErrDataUnavailable    = errors.New("flight data unavailable")
	ErrCredentialsMissing = errors.New("credentials missing")
)

// Params describes what to ask an upstream source for. EndDate, when set,
// is the last acceptable departure date.
type Params struct {
	Origin        string
	Destination   string
	DepartureDate civil.Date
	EndDate       *civil.Date
	Adults        int
	Cabin         string
	Currency      string
}

// FlightProvider returns normalized flights for the given parameters. It
// does not filter or sort beyond what the upstream query itself implies.
type FlightProvider interface {
	Name() string
	Search(ctx context.Context, p Params) ([]flight.Flight, error)
}

// ProviderError reports an upstream failure: transport, status, credentials
// or an undecodable payload.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
