package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ============================================================================
// RENDERING: Artifact → gonum/plot → PNG/SVG/PDF
// ============================================================================

// Format is an image encoding understood by Render.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// ParseFormat accepts "png", "svg" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG, PDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	}
	return "image/png"
}

// RenderOptions sets the output size and encoding.
type RenderOptions struct {
	Width  vg.Length
	Height vg.Length
	Format Format
}

// DefaultRenderOptions is a 10×5 inch PNG.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 10 * vg.Inch, Height: 5 * vg.Inch, Format: PNG}
}

var errNilArtifact = errors.New("chart: nil artifact")

// Plot converts an artifact into a gonum/plot plot.
func Plot(a Artifact) (*plot.Plot, error) {
	if a == nil {
		return nil, errNilArtifact
	}
	return a.plot()
}

// Render draws a onto w.
func Render(w io.Writer, a Artifact, opts RenderOptions) error {
	def := DefaultRenderOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Format == "" {
		opts.Format = def.Format
	}

	p, err := Plot(a)
	if err != nil {
		return err
	}

	writer, err := p.WriterTo(opts.Width, opts.Height, string(opts.Format))
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// ============================================================================
// LINE
// ============================================================================

func (c *LineChart) plot() (*plot.Plot, error) {
	if c == nil {
		return nil, errNilArtifact
	}

	p := newPlot(c.Title, c.XAxis, c.YAxis)
	p.X.Tick.Marker = yearTicks{}
	p.Legend.Top = true

	for i, s := range c.Series {
		style := draw.LineStyle{Color: plotutil.Color(i), Width: vg.Points(2)}

		for _, seg := range segments(s.Points) {
			if len(seg) == 1 {
				dot, err := plotter.NewScatter(seg)
				if err != nil {
					return nil, fmt.Errorf("series %q: %w", s.Name, err)
				}
				dot.GlyphStyle.Color = style.Color
				dot.GlyphStyle.Radius = vg.Points(2)
				dot.GlyphStyle.Shape = draw.CircleGlyph{}
				p.Add(dot)
				continue
			}

			line, err := plotter.NewLine(seg)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Name, err)
			}
			line.LineStyle = style
			p.Add(line)
		}

		p.Legend.Add(s.Name, &plotter.Line{LineStyle: style})
	}
	return p, nil
}

// segments splits a series at missing rates so gaps stay visible.
func segments(points []Point) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for _, pt := range points {
		if !plottable(pt.Rate) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(pt.Year), Y: *pt.Rate})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func plottable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// yearTicks keeps only whole-year ticks and labels them without decimals.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if t.Value != math.Trunc(t.Value) {
			continue
		}
		if t.Label != "" {
			t.Label = strconv.Itoa(int(t.Value))
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// ============================================================================
// BAR
// ============================================================================

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

func (c *BarChart) plot() (*plot.Plot, error) {
	if c == nil {
		return nil, errNilArtifact
	}

	p := newPlot(c.Title, c.XAxis, c.YAxis)
	if len(c.Bars) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(c.Bars))
	labels := make([]string, len(c.Bars))
	maxRate := 0.0
	for i, b := range c.Bars {
		labels[i] = b.Label
		if plottable(b.Value) {
			values[i] = *b.Value
			maxRate = math.Max(maxRate, *b.Value)
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	if len(labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 3
		p.X.Tick.Label.YAlign = draw.YCenter
		p.X.Tick.Label.XAlign = draw.XCenter
	}

	var valueXYs plotter.XYs
	var valueLabels []string
	for i, b := range c.Bars {
		if !plottable(b.Value) {
			continue
		}
		valueXYs = append(valueXYs, plotter.XY{X: float64(i), Y: *b.Value + maxRate*0.02})
		valueLabels = append(valueLabels, fmt.Sprintf("%.1f", *b.Value))
	}
	if len(valueXYs) > 0 {
		text, err := plotter.NewLabels(plotter.XYLabels{XYs: valueXYs, Labels: valueLabels})
		if err != nil {
			return nil, fmt.Errorf("failed to build bar labels: %w", err)
		}
		p.Add(text)
	}

	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	if maxRate > 0 {
		p.Y.Max = maxRate * 1.15
	}
	return p, nil
}
