package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/you/go-travel-flights/internal/flight"
	"github.com/you/go-travel-flights/internal/providers"
)

type ProviderMock struct {
	name            string
	flights         []flight.Flight
	delay           time.Duration
	errorOutMessage *string
	err             error
	callCount       *int32
	lastParams      *providers.Params
}

func (p ProviderMock) Name() string {
	return p.name
}

func (p ProviderMock) Search(ctx context.Context, params providers.Params) ([]flight.Flight, error) {
	if p.callCount != nil {
		atomic.AddInt32(p.callCount, 1)
	}
	if p.lastParams != nil {
		*p.lastParams = params
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.errorOutMessage != nil {
		return nil, providers.NewProviderError(p.Name(), errors.New(*p.errorOutMessage))
	}
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.flights, nil
}
