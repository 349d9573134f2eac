package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"unemployment/internal/chart"
)

// PageTitle is the heading of the dashboard page.
const PageTitle = "Unemployment & Job Market Trend Dashboard"

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type countryOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Title           string
	Countries       []countryOption
	HasSelection    bool
	HasYears        bool
	MinYear         int
	MaxYear         int
	Year            int
	SeriesURL       string
	ComparisonURL   string
	ComparisonTitle string
}

// handleIndex renders the page. With no countries selected it shows a plain
// message and links no charts; an invalid year falls back to the earliest.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	selected := selectedCountries(r)
	isSelected := make(map[string]bool, len(selected))
	for _, c := range selected {
		isSelected[c] = true
	}

	data := pageData{Title: PageTitle, HasSelection: len(selected) > 0}
	for _, c := range s.ds.Countries() {
		data.Countries = append(data.Countries, countryOption{Name: c, Selected: isSelected[c]})
	}

	data.MinYear, data.MaxYear, data.HasYears = s.ds.PeriodRange()
	data.Year = data.MinYear
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && s.ds.ContainsYear(y) {
		data.Year = y
	}

	if data.HasSelection {
		q := url.Values{"country": selected}
		data.SeriesURL = "/charts/series.png?" + q.Encode()
		q.Set("year", strconv.Itoa(data.Year))
		data.ComparisonURL = "/charts/comparison.png?" + q.Encode()
		data.ComparisonTitle = chart.ComparisonTitle(data.Year)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		log.Printf("❌ Failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
