package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/filter"
	"github.com/you/go-travel-flights/internal/flight"
	"github.com/you/go-travel-flights/internal/rank"
	"github.com/you/go-travel-flights/internal/service"
)

type searchResponse struct {
	Provider string          `json:"provider"`
	Count    int             `json:"count"`
	Flights  []flight.Flight `json:"flights"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// requestFromQuery reads the search fields shared by the form, the JSON API
// and the streaming endpoints.
func requestFromQuery(q url.Values) (service.Request, error) {
	req := service.Request{
		Origin:      q.Get("from"),
		Destination: q.Get("to"),
		Date:        q.Get("date"),
		DateRange:   q.Get("date_range"),
		Cabin:       q.Get("cabin"),
		Airlines:    q.Get("airlines"),
		DepWindow:   q.Get("dep_window"),
		Sort:        q.Get("sort"),
	}
	if s := strings.TrimSpace(q.Get("adults")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return req, fmt.Errorf("%w: adults %q", filter.ErrInvalidCriterion, s)
		}
		req.Adults = n
	}
	if s := strings.TrimSpace(q.Get("max_price")); s != "" {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, fmt.Errorf("%w: max price %q", filter.ErrInvalidCriterion, s)
		}
		req.MaxPrice = &p
	}
	return req, nil
}

func parseQuery(cfg *config.Config, q url.Values) (service.Query, error) {
	req, err := requestFromQuery(q)
	if err != nil {
		return service.Query{}, err
	}
	return req.Query(cfg)
}

// statusFor maps search errors to HTTP codes: bad input is the caller's
// fault, anything else is an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingDate),
		errors.Is(err, service.ErrConflictingDates),
		errors.Is(err, filter.ErrInvalidCriterion),
		errors.Is(err, rank.ErrInvalidSortKey):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func runSearch(ctx context.Context, cfg *config.Config, svc *service.SearchService, q service.Query) (searchResponse, error) {
	if cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout)
		defer cancel()
	}
	flights, err := svc.Run(ctx, q)
	if err != nil {
		return searchResponse{}, err
	}
	return searchResponse{Provider: svc.ProviderName(), Count: len(flights), Flights: flights}, nil
}

func SearchHandler(cfg *config.Config, svc *service.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(cfg, r.URL.Query())
		if err != nil {
			writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
			return
		}
		res, err := runSearch(r.Context(), cfg, svc, q)
		if err != nil {
			log.Printf("search failed: %v", err)
			writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func refreshEvery(cfg *config.Config) time.Duration {
	if cfg.RefreshInterval <= 0 {
		return 30 * time.Second
	}
	return cfg.RefreshInterval
}

// SubscribeSSEHandler streams the search result now and again on every
// refresh tick until the client goes away or the search fails.
func SubscribeSSEHandler(cfg *config.Config, svc *service.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(cfg, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		updateTick := time.NewTicker(refreshEvery(cfg))
		defer updateTick.Stop()

		ctx := r.Context()
		for {
			res, err := runSearch(ctx, cfg, svc, q)
			if err != nil {
				if ctx.Err() == nil {
					fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
					flusher.Flush()
				}
				return
			}
			payload, _ := json.Marshal(res)
			fmt.Fprintf(w, "event: update\ndata: %s\n\n", payload)
			flusher.Flush()

			select {
			case <-ctx.Done():
				log.Println("SSE client closed")
				return
			case <-updateTick.C:
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SubscribeWSHandler(cfg *config.Config, svc *service.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(cfg, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		// the read loop handles control frames and notices the client leaving
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(refreshEvery(cfg))
		defer ticker.Stop()

		for {
			res, err := runSearch(ctx, cfg, svc, q)
			if err != nil {
				_ = conn.WriteJSON(errorResponse{Error: err.Error()})
				return
			}
			if err := conn.WriteJSON(res); err != nil {
				log.Printf("write error: %v", err)
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}
