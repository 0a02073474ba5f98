package providers

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/you/go-travel-flights/internal/flight"
	"github.com/you/go-travel-flights/internal/providers/data"
)

// Mock serves a fixed OSL-PER dataset. It returns every record regardless of
// the parameters; filtering happens downstream.
type Mock struct {
	path string
}

// NewMock reads the fixture at path on each search. An empty path selects
// the embedded dataset.
func NewMock(path string) *Mock {
	return &Mock{path: path}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Search(ctx context.Context, _ Params) ([]flight.Flight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := data.MockOSLPER
	if m.path != "" {
		b, err := os.ReadFile(m.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
		raw = b
	}

	flights, err := flight.DecodeFixture(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	return flights, nil
}
