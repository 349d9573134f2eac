// Package dashboard serves the interactive unemployment dashboard over HTTP.
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"unemployment/internal/chart"
	"unemployment/internal/dataset"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures a Server.
type Options struct {
	Render  chart.RenderOptions
	Metrics *Metrics
	// Quiet disables per-request logging.
	Quiet bool
}

// Server answers dashboard requests against a dataset loaded at startup.
// The dataset is never modified, so handlers share it without locking.
type Server struct {
	ds      *dataset.Dataset
	render  chart.RenderOptions
	metrics *Metrics
	quiet   bool
}

// NewServer creates a server for ds.
func NewServer(ds *dataset.Dataset, opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	return &Server{
		ds:      ds,
		render:  opts.Render,
		metrics: opts.Metrics,
		quiet:   opts.Quiet,
	}
}

// Routes returns the dashboard router.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()
	if !s.quiet {
		router.Use(logRequests)
	}

	router.HandleFunc("/", s.handleIndex).Methods("GET")
	router.HandleFunc("/charts/series.{format}", s.handleSeriesImage).Methods("GET")
	router.HandleFunc("/charts/comparison.{format}", s.handleComparisonImage).Methods("GET")
	router.HandleFunc("/api/countries", s.handleCountries).Methods("GET")
	router.HandleFunc("/api/series", s.handleSeriesJSON).Methods("GET")
	router.HandleFunc("/api/comparison", s.handleComparisonJSON).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods("GET")

	return router
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Microsecond))
	})
}

// ============================================================================
// SELECTION
// ============================================================================

var (
	errNoCountries     = errors.New("no countries selected")
	errBadYear         = errors.New("year must be an integer")
	errYearOutOfRange  = errors.New("year is outside the data's range")
	errNoYearsInSource = errors.New("dataset has no years")
)

type selection struct {
	countries []string
	year      int
}

// selectedCountries reads every "country" query value, trimmed, blanks
// dropped.
func selectedCountries(r *http.Request) []string {
	var out []string
	for _, c := range r.URL.Query()["country"] {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// parseSelection applies the shell contract: charts need at least one
// country, and the comparison year must lie within the data's years.
// A missing year defaults to the earliest year.
func (s *Server) parseSelection(r *http.Request, withYear bool) (selection, error) {
	sel := selection{countries: selectedCountries(r)}
	if len(sel.countries) == 0 {
		return sel, errNoCountries
	}
	if !withYear {
		return sel, nil
	}

	lo, _, ok := s.ds.PeriodRange()
	if !ok {
		return sel, errNoYearsInSource
	}

	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		sel.year = lo
		return sel, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return sel, errBadYear
	}
	if !s.ds.ContainsYear(year) {
		return sel, errYearOutOfRange
	}
	sel.year = year
	return sel, nil
}

func (s *Server) reject(w http.ResponseWriter, err error) {
	reason := "other"
	switch {
	case errors.Is(err, errNoCountries):
		reason = "no_countries"
	case errors.Is(err, errBadYear):
		reason = "bad_year"
	case errors.Is(err, errYearOutOfRange), errors.Is(err, errNoYearsInSource):
		reason = "year_out_of_range"
	}
	s.metrics.rejected(reason)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// ============================================================================
// IMAGE HANDLERS
// ============================================================================

func (s *Server) handleSeriesImage(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, err := s.parseSelection(r, false)
	if err != nil {
		s.reject(w, err)
		return
	}

	start := time.Now()
	s.writeImage(w, chart.BuildSeries(s.ds, sel.countries), format, start)
}

func (s *Server) handleComparisonImage(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, err := s.parseSelection(r, true)
	if err != nil {
		s.reject(w, err)
		return
	}

	start := time.Now()
	s.writeImage(w, chart.BuildComparison(s.ds, sel.year, sel.countries), format, start)
}

func (s *Server) writeImage(w http.ResponseWriter, a chart.Artifact, format chart.Format, start time.Time) {
	opts := s.render
	opts.Format = format

	var buf bytes.Buffer
	if err := chart.Render(&buf, a, opts); err != nil {
		log.Printf("❌ Failed to render %s chart: %v", a.Kind(), err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	s.metrics.observeRender(a.Kind(), format, time.Since(start))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("⚠️ Failed to write chart response: %v", err)
	}
}

// ============================================================================
// JSON HANDLERS
// ============================================================================

// CountriesResponse lists the selectable countries and the year slider bounds.
type CountriesResponse struct {
	Countries []string `json:"countries"`
	MinYear   int      `json:"minYear"`
	MaxYear   int      `json:"maxYear"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	lo, hi, _ := s.ds.PeriodRange()
	countries := s.ds.Countries()
	if countries == nil {
		countries = []string{}
	}
	writeJSON(w, CountriesResponse{Countries: countries, MinYear: lo, MaxYear: hi})
}

func (s *Server) handleSeriesJSON(w http.ResponseWriter, r *http.Request) {
	sel, err := s.parseSelection(r, false)
	if err != nil {
		s.reject(w, err)
		return
	}
	writeJSON(w, chart.BuildSeries(s.ds, sel.countries))
}

func (s *Server) handleComparisonJSON(w http.ResponseWriter, r *http.Request) {
	sel, err := s.parseSelection(r, true)
	if err != nil {
		s.reject(w, err)
		return
	}
	writeJSON(w, chart.BuildComparison(s.ds, sel.year, sel.countries))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Failed to encode JSON response: %v", err)
	}
}
