package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/flight"
)

type Duffel struct {
	host     string
	token    string
	currency string
	loc      *time.Location
	client   *http.Client
}

func NewDuffel(cfg *config.Config) *Duffel {
	return &Duffel{host: cfg.DuffelHost,
		token:    cfg.DuffelToken,
		currency: cfg.DefaultCurrency,
		loc:      cfg.Location(),
		client:   http.DefaultClient,
	}
}

func (d *Duffel) Name() string {
	return "duffel"
}

type duffelSlice struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type duffelPassenger struct {
	Type string `json:"type"`
}

type duffelOfferRequest struct {
	Slices     []duffelSlice     `json:"slices"`
	Passengers []duffelPassenger `json:"passengers"`
	CabinClass string            `json:"cabin_class"`
}

type duffelOfferRequestEnvelope struct {
	Data duffelOfferRequest `json:"data"`
}

type duffelPlace struct {
	IataCode string `json:"iata_code"`
}

type duffelCarrier struct {
	IataCode string `json:"iata_code"`
}

type duffelOffer struct {
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
	Slices        []struct {
		Segments []struct {
			Origin                       duffelPlace   `json:"origin"`
			Destination                  duffelPlace   `json:"destination"`
			DepartingAt                  string        `json:"departing_at"`
			ArrivingAt                   string        `json:"arriving_at"`
			Duration                     string        `json:"duration"` // ISO8601 e.g. PT2H10M
			MarketingCarrier             duffelCarrier `json:"marketing_carrier"`
			MarketingCarrierFlightNumber string        `json:"marketing_carrier_flight_number"`
		} `json:"segments"`
	} `json:"slices"`
}

type duffelOfferResp struct {
	Data struct {
		Offers []duffelOffer `json:"offers"`
	} `json:"data"`
}

func (d *Duffel) Search(ctx context.Context, p Params) ([]flight.Flight, error) {
	if d.token == "" {
		return nil, NewProviderError(d.Name(), ErrCredentialsMissing)
	}

	var out []flight.Flight
	for _, date := range departureDates(p) {
		offers, err := d.offers(ctx, p, date.String())
		if err != nil {
			return nil, NewProviderError(d.Name(), err)
		}
		for _, o := range offers {
			f, err := d.normalize(o)
			if err != nil {
				log.Printf("duffel: skipping offer: %v", err)
				continue
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (d *Duffel) offers(ctx context.Context, p Params, date string) ([]duffelOffer, error) {
	passengers := make([]duffelPassenger, max(p.Adults, 1))
	for i := range passengers {
		passengers[i] = duffelPassenger{Type: "adult"}
	}
	cabin := strings.ToLower(p.Cabin)
	if cabin == "" {
		cabin = "economy"
	}
	reqBody := duffelOfferRequestEnvelope{Data: duffelOfferRequest{
		Slices:     []duffelSlice{{Origin: p.Origin, Destination: p.Destination, DepartureDate: date}},
		Passengers: passengers,
		CabinClass: cabin,
	}}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.host+"/air/offer_requests?return_offers=true", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Duffel-Version", "v2")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("offer request: %s", resp.Status)
	}

	var pr duffelOfferResp
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("offer request: %w", err)
	}
	return pr.Data.Offers, nil
}

func (d *Duffel) normalize(o duffelOffer) (flight.Flight, error) {
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return flight.Flight{}, flight.ErrNoSegments
	}
	price, err := strconv.ParseFloat(o.TotalAmount, 64)
	if err != nil {
		return flight.Flight{}, fmt.Errorf("price %q: %w", o.TotalAmount, err)
	}

	segs := make([]flight.Segment, 0, len(o.Slices[0].Segments))
	for _, s := range o.Slices[0].Segments {
		dep, err := flight.ParseCivil(s.DepartingAt, d.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		arr, err := flight.ParseCivil(s.ArrivingAt, d.loc)
		if err != nil {
			return flight.Flight{}, err
		}
		dur := parseISODurationMinutes(s.Duration)
		if dur == 0 {
			dur = minutesBetween(dep, arr)
		}
		carrier := s.MarketingCarrier.IataCode
		segs = append(segs, flight.Segment{
			From:           s.Origin.IataCode,
			To:             s.Destination.IataCode,
			DepartureLocal: dep,
			ArrivalLocal:   arr,
			DurationMin:    dur,
			FlightNumber:   carrier + s.MarketingCarrierFlightNumber,
			AirlineCode:    carrier,
		})
	}
	return flight.New(price, currencyOr(o.TotalCurrency, d.currency), segs, nil)
}
