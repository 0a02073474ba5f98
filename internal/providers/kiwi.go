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
	"time"

	"cloud.google.com/go/civil"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/flight"
)

// Kiwi queries the Tequila search API. Kiwi reports UTC epochs, which are
// moved onto the configured civil zone.
type Kiwi struct {
	host     string
	apiKey   string
	currency string
	loc      *time.Location
	client   *http.Client
}

func NewKiwi(cfg *config.Config) *Kiwi {
	return &Kiwi{host: cfg.KiwiHost,
		apiKey:   cfg.KiwiAPIKey,
		currency: cfg.DefaultCurrency,
		loc:      cfg.Location(),
		client:   http.DefaultClient,
	}
}

func (k *Kiwi) Name() string { return "kiwi" }

type kiwiRoute struct {
	FlyFrom  string      `json:"flyFrom"`
	FlyTo    string      `json:"flyTo"`
	DTimeUTC int64       `json:"dTimeUTC"`
	ATimeUTC int64       `json:"aTimeUTC"`
	FlightNo json.Number `json:"flight_no"`
	Airline  string      `json:"airline"`
}

type kiwiFlight struct {
	Price    float64     `json:"price"`
	DeepLink string      `json:"deep_link"`
	Route    []kiwiRoute `json:"route"`
}

type kiwiResponse struct {
	Currency string       `json:"currency"`
	Data     []kiwiFlight `json:"data"`
}

func (k *Kiwi) Search(ctx context.Context, p Params) ([]flight.Flight, error) {
	if k.apiKey == "" {
		return nil, NewProviderError(k.Name(), ErrCredentialsMissing)
	}

	last := p.DepartureDate
	if p.EndDate != nil {
		last = *p.EndDate
	}
	q := url.Values{}
	q.Set("fly_from", p.Origin)
	q.Set("fly_to", p.Destination)
	q.Set("date_from", kiwiDate(p.DepartureDate))
	q.Set("date_to", kiwiDate(last))
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))
	q.Set("selected_cabins", kiwiCabin(p.Cabin))
	q.Set("flight_type", "oneway")
	q.Set("max_stopovers", "3")
	q.Set("curr", currencyOr(p.Currency, k.currency))
	q.Set("limit", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.host+"/v2/search?"+q.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(k.Name(), err)
	}
	req.Header.Set("apikey", k.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, NewProviderError(k.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, NewProviderError(k.Name(), fmt.Errorf("search: %s", resp.Status))
	}

	var payload kiwiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewProviderError(k.Name(), fmt.Errorf("search: %w", err))
	}

	currency := currencyOr(payload.Currency, currencyOr(p.Currency, k.currency))
	var out []flight.Flight
	for _, kf := range payload.Data {
		f, err := k.normalize(kf, currency)
		if err != nil {
			log.Printf("kiwi: skipping malformed flight: %v", err)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (k *Kiwi) normalize(kf kiwiFlight, currency string) (flight.Flight, error) {
	segs := make([]flight.Segment, 0, len(kf.Route))
	for _, r := range kf.Route {
		dep := time.Unix(r.DTimeUTC, 0).In(k.loc)
		arr := time.Unix(r.ATimeUTC, 0).In(k.loc)
		segs = append(segs, flight.Segment{
			From:           r.FlyFrom,
			To:             r.FlyTo,
			DepartureLocal: civil.DateTimeOf(dep),
			ArrivalLocal:   civil.DateTimeOf(arr),
			DurationMin:    int(arr.Sub(dep) / time.Minute),
			FlightNumber:   r.Airline + r.FlightNo.String(),
			AirlineCode:    r.Airline,
		})
	}
	var link *string
	if kf.DeepLink != "" {
		l := kf.DeepLink
		link = &l
	}
	return flight.New(kf.Price, currency, segs, link)
}

func kiwiDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func kiwiCabin(cabin string) string {
	switch strings.ToLower(cabin) {
	case "premium_economy":
		return "W"
	case "business":
		return "C"
	case "first":
		return "F"
	default:
		return "M"
	}
}
