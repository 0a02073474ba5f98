package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/flight"
)

type Amadeus struct {
	host       string
	authPath   string
	searchPath string
	client     *http.Client
	id         string
	secret     string
	currency   string
	loc        *time.Location
	mu         sync.Mutex
	tok        string
	expires    time.Time
}

func NewAmadeus(cfg *config.Config) *Amadeus {
	return &Amadeus{host: cfg.AmadeusURL,
		authPath:   "/v1/security/oauth2/token",
		searchPath: "/v2/shopping/flight-offers",
		id:         cfg.AmadeusClientId,
		secret:     cfg.AmadeusClientSecret,
		currency:   cfg.DefaultCurrency,
		loc:        cfg.Location(),
		client:     http.DefaultClient,
	}
}

func (a *Amadeus) Name() string { return "amadeus" }

func (a *Amadeus) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tok != "" && time.Now().Before(a.expires.Add(-10*time.Second)) {
		return a.tok, nil
	}
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", a.id)
	data.Set("client_secret", a.secret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.host+a.authPath, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token: %s", resp.Status)
	}
	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	a.tok = tr.AccessToken
	a.expires = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	return a.tok, nil
}

type amadeusSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
	Duration    string `json:"duration"` // ISO8601 e.g. PT2H10M
}

type amadeusOffer struct {
	Price struct {
		Currency   string `json:"currency"`
		Total      string `json:"total"`
		GrandTotal string `json:"grandTotal"`
	} `json:"price"`
	Itineraries []struct {
		Segments []amadeusSegment `json:"segments"`
	} `json:"itineraries"`
}

func (a *Amadeus) Search(ctx context.Context, p Params) ([]flight.Flight, error) {
	if a.id == "" || a.secret == "" {
		return nil, NewProviderError(a.Name(), ErrCredentialsMissing)
	}
	tok, err := a.token(ctx)
	if err != nil {
		return nil, NewProviderError(a.Name(), err)
	}

	var out []flight.Flight
	for _, d := range departureDates(p) {
		offers, err := a.offers(ctx, tok, p, d.String())
		if err != nil {
			return nil, NewProviderError(a.Name(), err)
		}
		for _, o := range offers {
			f, err := a.normalize(o)
			if err != nil {
				log.Printf("amadeus: skipping offer: %v", err)
				continue
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (a *Amadeus) offers(ctx context.Context, tok string, p Params, date string) ([]amadeusOffer, error) {
	q := url.Values{}
	q.Set("originLocationCode", p.Origin)
	q.Set("destinationLocationCode", p.Destination)
	q.Set("departureDate", date)
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))
	q.Set("currencyCode", currencyOr(p.Currency, a.currency))
	q.Set("travelClass", amadeusTravelClass(p.Cabin))
	q.Set("max", "20")
	u := a.host + a.searchPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search: %s", resp.Status)
	}

	var payload struct {
		Data []amadeusOffer `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return payload.Data, nil
}

func (a *Amadeus) normalize(o amadeusOffer) (flight.Flight, error) {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return flight.Flight{}, flight.ErrNoSegments
	}
	total := o.Price.GrandTotal
	if total == "" {
		total = o.Price.Total
	}
	price, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return flight.Flight{}, fmt.Errorf("price %q: %w", total, err)
	}

	segs := make([]flight.Segment, 0, len(o.Itineraries[0].Segments))
	for _, s := range o.Itineraries[0].Segments {
		dep, err := flight.ParseCivil(s.Departure.At, a.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		arr, err := flight.ParseCivil(s.Arrival.At, a.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		dur := parseISODurationMinutes(s.Duration)
		if dur == 0 {
			dur = minutesBetween(dep, arr)
		}
		segs = append(segs, flight.Segment{
			From:           s.Departure.IataCode,
			To:             s.Arrival.IataCode,
			DepartureLocal: dep,
			ArrivalLocal:   arr,
			DurationMin:    dur,
			FlightNumber:   s.CarrierCode + s.Number,
			AirlineCode:    s.CarrierCode,
		})
	}
	return flight.New(price, currencyOr(o.Price.Currency, a.currency), segs, nil)
}

func amadeusTravelClass(cabin string) string {
	switch strings.ToLower(cabin) {
	case "premium_economy":
		return "PREMIUM_ECONOMY"
	case "business":
		return "BUSINESS"
	case "first":
		return "FIRST"
	default:
		return "ECONOMY"
	}
}

func currencyOr(c, fallback string) string {
	if c != "" {
		return strings.ToUpper(c)
	}
	return fallback
}
