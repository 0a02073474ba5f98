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

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/flight"
)

type RapidBooking struct {
	host        string
	path        string
	rapidApiKey string
	currency    string
	loc         *time.Location
	client      *http.Client
}

func NewRapidBooking(cfg *config.Config) *RapidBooking {
	return &RapidBooking{host: cfg.RapidBookingHost,
		path:        "/api/v1/flights/searchFlights",
		rapidApiKey: cfg.RapidBookingRapidApiKey,
		currency:    cfg.DefaultCurrency,
		loc:         cfg.Location(),
		client:      http.DefaultClient,
	}
}

func (r *RapidBooking) Name() string {
	return "rapid-booking"
}

type rapidAirport struct {
	Code string `json:"code"`
}

type rapidLeg struct {
	DepartureTime    string       `json:"departureTime"`
	ArrivalTime      string       `json:"arrivalTime"`
	DepartureAirport rapidAirport `json:"departureAirport"`
	ArrivalAirport   rapidAirport `json:"arrivalAirport"`
	TotalTime        int          `json:"totalTime"` // seconds
	FlightInfo       struct {
		FlightNumber int `json:"flightNumber"`
		CarrierInfo  struct {
			MarketingCarrier string `json:"marketingCarrier"`
		} `json:"carrierInfo"`
	} `json:"flightInfo"`
}

type rapidOffer struct {
	Token    string `json:"token"`
	Segments []struct {
		Legs []rapidLeg `json:"legs"`
	} `json:"segments"`
	PriceBreakdown struct {
		Total struct {
			CurrencyCode string `json:"currencyCode"`
			Units        int64  `json:"units"`
			Nanos        int64  `json:"nanos"`
		} `json:"total"`
	} `json:"priceBreakdown"`
}

func (r *RapidBooking) baseURL() url.URL {
	if strings.Contains(r.host, "://") {
		if u, err := url.Parse(r.host); err == nil {
			return url.URL{Scheme: u.Scheme, Host: u.Host, Path: r.path}
		}
	}
	return url.URL{Scheme: "https", Host: r.host, Path: r.path}
}

func (r *RapidBooking) Search(ctx context.Context, p Params) ([]flight.Flight, error) {
	if r.rapidApiKey == "" {
		return nil, NewProviderError(r.Name(), ErrCredentialsMissing)
	}

	var out []flight.Flight
	for _, d := range departureDates(p) {
		offers, err := r.offers(ctx, p, d.String())
		if err != nil {
			return nil, NewProviderError(r.Name(), err)
		}
		for _, o := range offers {
			f, err := r.normalize(o)
			if err != nil {
				log.Printf("rapid booking: skipping offer: %v", err)
				continue
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *RapidBooking) offers(ctx context.Context, p Params, date string) ([]rapidOffer, error) {
	u := r.baseURL()
	q := u.Query()
	// Rapid requires the ".AIRPORT" suffix
	q.Set("fromId", p.Origin+".AIRPORT")
	q.Set("toId", p.Destination+".AIRPORT")
	q.Set("departDate", date) // YYYY-MM-DD
	q.Set("pageNo", "1")
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))
	q.Set("sort", "BEST")
	q.Set("cabinClass", strings.ToUpper(cabinOr(p.Cabin)))
	q.Set("currency_code", currencyOr(p.Currency, r.currency))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", r.rapidApiKey)
	req.Header.Set("X-RapidAPI-Host", u.Host)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search: %s", resp.Status)
	}

	var payload struct {
		Data struct {
			FlightOffers []rapidOffer `json:"flightOffers"`
		} `json:"data"`
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if !payload.Status {
		return nil, fmt.Errorf("search: %s", payload.Message)
	}
	return payload.Data.FlightOffers, nil
}

func (r *RapidBooking) normalize(o rapidOffer) (flight.Flight, error) {
	if len(o.Segments) == 0 || len(o.Segments[0].Legs) == 0 {
		return flight.Flight{}, flight.ErrNoSegments
	}

	segs := make([]flight.Segment, 0, len(o.Segments[0].Legs))
	for _, l := range o.Segments[0].Legs {
		dep, err := flight.ParseCivil(l.DepartureTime, r.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		arr, err := flight.ParseCivil(l.ArrivalTime, r.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		durMin := l.TotalTime / 60
		if durMin <= 0 {
			durMin = minutesBetween(dep, arr)
		}
		carrier := l.FlightInfo.CarrierInfo.MarketingCarrier
		segs = append(segs, flight.Segment{
			From:           l.DepartureAirport.Code,
			To:             l.ArrivalAirport.Code,
			DepartureLocal: dep,
			ArrivalLocal:   arr,
			DurationMin:    durMin,
			FlightNumber:   carrier + strconv.Itoa(l.FlightInfo.FlightNumber),
			AirlineCode:    carrier,
		})
	}

	total := float64(o.PriceBreakdown.Total.Units) +
		float64(o.PriceBreakdown.Total.Nanos)/1e9
	return flight.New(total, currencyOr(o.PriceBreakdown.Total.CurrencyCode, r.currency), segs, nil)
}

func cabinOr(cabin string) string {
	if cabin == "" {
		return "economy"
	}
	return cabin
}
