// Package chart builds render-ready chart artifacts from a dataset and
// draws them with gonum/plot.
package chart

import "gonum.org/v1/plot"

// ============================================================================
// ARTIFACT: what the builders hand to the rendering layer
// ============================================================================

// Kind identifies the chart type of an artifact.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
)

// Artifact is a chart ready to be rendered. It is implemented by
// *LineChart and *BarChart only.
type Artifact interface {
	Kind() Kind
	plot() (*plot.Plot, error)
}

// ============================================================================
// LINE CHART
// ============================================================================

// LineChart is a multi-series time chart, one series per country.
type LineChart struct {
	Type   Kind     `json:"chartType"`
	Title  string   `json:"title"`
	XAxis  string   `json:"xAxis"`
	YAxis  string   `json:"yAxis"`
	Series []Series `json:"series"`
}

// Series is one named line. Points keep the dataset's order.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is a (year, rate) pair. A nil Rate is a gap in the line.
type Point struct {
	Year int      `json:"x"`
	Rate *float64 `json:"y"`
}

func (*LineChart) Kind() Kind { return KindLine }

// ============================================================================
// BAR CHART
// ============================================================================

// BarChart compares countries for a single year.
type BarChart struct {
	Type  Kind   `json:"chartType"`
	Title string `json:"title"`
	XAxis string `json:"xAxis"`
	YAxis string `json:"yAxis"`
	Year  int    `json:"year"`
	Bars  []Bar  `json:"bars"`
}

// Bar is one country's rate. Value is nil when the source cell was missing.
type Bar struct {
	Label string   `json:"label"`
	Code  string   `json:"code"`
	Value *float64 `json:"value"`
}

func (*BarChart) Kind() Kind { return KindBar }
