package httpx

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/rank"
	"github.com/you/go-travel-flights/internal/report"
	"github.com/you/go-travel-flights/internal/service"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type formPage struct {
	Origin      string
	Destination string
	Form        url.Values
	SortKeys    []rank.Key
	Headers     []string
	Searched    bool
	Provider    string
	Rows        [][]string
	Error       string
}

// FormHandler serves the search form on GET /. When the query carries a date
// it also runs the search and renders the results below the form.
func FormHandler(cfg *config.Config, svc *service.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		form := r.URL.Query()
		page := formPage{
			Origin:      cfg.Origin,
			Destination: cfg.Destination,
			Form:        form,
			SortKeys:    rank.Keys,
			Headers:     report.Headers,
			Provider:    svc.ProviderName(),
		}

		status := http.StatusOK
		if form.Get("date") != "" || form.Get("date_range") != "" {
			page.Searched = true
			q, err := parseQuery(cfg, form)
			if err == nil {
				var res searchResponse
				res, err = runSearch(r.Context(), cfg, svc, q)
				for _, f := range res.Flights {
					page.Rows = append(page.Rows, report.Row(f))
				}
			}
			if err != nil {
				log.Printf("form search failed: %v", err)
				page.Error = err.Error()
				status = statusFor(err)
			}
		}

		var buf bytes.Buffer
		if err := indexTmpl.Execute(&buf, page); err != nil {
			log.Printf("render form: %v", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	}
}
