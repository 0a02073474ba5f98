package providers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/you/go-travel-flights/internal/config"
)

type Kind string

const (
	KindMock         Kind = "mock"
	KindAmadeus      Kind = "amadeus"
	KindDuffel       Kind = "duffel"
	KindKiwi         Kind = "kiwi"
	KindRapidBooking Kind = "rapid-booking"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindMock, nil
	case KindMock, KindAmadeus, KindDuffel, KindKiwi, KindRapidBooking:
		return k, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}

// New builds the provider named by cfg.Provider. Remote providers without
// credentials fall back to the mock dataset with a warning. Every upstream
// request a remote provider sends goes through the configured rate limit.
func New(cfg *config.Config) (FlightProvider, error) {
	kind, err := ParseKind(cfg.Provider)
	if err != nil {
		return nil, err
	}

	client := RateLimitedClient(http.DefaultClient, cfg.ProviderRPS, cfg.ProviderBurst)
	var p FlightProvider
	switch kind {
	case KindAmadeus:
		if cfg.AmadeusClientId != "" && cfg.AmadeusClientSecret != "" {
			a := NewAmadeus(cfg)
			a.client = client
			p = a
		}
	case KindDuffel:
		if cfg.DuffelToken != "" {
			d := NewDuffel(cfg)
			d.client = client
			p = d
		}
	case KindKiwi:
		if cfg.KiwiAPIKey != "" {
			k := NewKiwi(cfg)
			k.client = client
			p = k
		}
	case KindRapidBooking:
		if cfg.RapidBookingRapidApiKey != "" {
			r := NewRapidBooking(cfg)
			r.client = client
			p = r
		}
	}

	if p == nil {
		if kind != KindMock {
			log.Printf("WARNING: no credentials for %s, falling back to mock provider", kind)
		}
		return NewMock(cfg.MockDataFile), nil
	}
	return p, nil
}
