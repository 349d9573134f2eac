package chart

import (
	"fmt"

	"unemployment/internal/dataset"
)

// Axis labels and titles shared by the builders.
const (
	SeriesTitle   = "Unemployment Rate by Country"
	YearAxis      = "Year"
	CountryAxis   = "Country"
	RateAxis      = "Unemployment Rate (%)"
	compareFormat = "Unemployment Rate Comparison for Year %d"
)

// ComparisonTitle returns the bar chart title for year.
func ComparisonTitle(year int) string {
	return fmt.Sprintf(compareFormat, year)
}

// BuildSeries returns a line chart with one series per selected country.
//
// Points follow the dataset's order, which for a loaded table is ascending
// by year. A country missing from the dataset gets an empty series; an empty
// selection gives a chart with no series.
func BuildSeries(ds *dataset.Dataset, countries []string) *LineChart {
	chart := &LineChart{
		Type:   KindLine,
		Title:  SeriesTitle,
		XAxis:  YearAxis,
		YAxis:  RateAxis,
		Series: []Series{},
	}

	selected := uniqueNames(countries)
	if len(selected) == 0 {
		return chart
	}

	index := make(map[string]int, len(selected))
	chart.Series = make([]Series, len(selected))
	for i, name := range selected {
		index[name] = i
		chart.Series[i] = Series{Name: name, Points: []Point{}}
	}

	if ds == nil {
		return chart
	}
	for _, r := range ds.All() {
		i, ok := index[r.Country]
		if !ok {
			continue
		}
		chart.Series[i].Points = append(chart.Series[i].Points, Point{
			Year: r.Year,
			Rate: copyRate(r.Rate),
		})
	}
	return chart
}

// BuildComparison returns a bar chart of the selected countries' rates for
// year, one bar per matching record in dataset order. Years outside the
// data and countries without a record for year simply produce no bars.
func BuildComparison(ds *dataset.Dataset, year int, countries []string) *BarChart {
	chart := &BarChart{
		Type:  KindBar,
		Title: ComparisonTitle(year),
		XAxis: CountryAxis,
		YAxis: RateAxis,
		Year:  year,
		Bars:  []Bar{},
	}

	selected := uniqueNames(countries)
	if len(selected) == 0 || ds == nil {
		return chart
	}

	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}

	for _, r := range ds.All() {
		if r.Year != year || !want[r.Country] {
			continue
		}
		chart.Bars = append(chart.Bars, Bar{
			Label: r.Country,
			Code:  r.Code,
			Value: copyRate(r.Rate),
		})
	}
	return chart
}

// uniqueNames drops repeated names, keeping the first occurrence.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func copyRate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
