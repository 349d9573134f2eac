package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"unemployment/internal/chart"
	"unemployment/internal/dataset"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the series and comparison charts to image files",
		Example: `  dashboard render --data unemployment_data.csv --country Aruba --country Zimbabwe --year 2005
  dashboard render --data rates.xlsx --country "Korea, Rep." --format svg --out charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := chart.ParseFormat(v.GetString("format"))
			if err != nil {
				return err
			}

			countries := v.GetStringSlice("country")
			if cmd.Flags().Changed("country") {
				countries, _ = cmd.Flags().GetStringArray("country")
			}

			ds, err := loadDataset(v)
			if err != nil {
				return err
			}

			opts := renderOptions(v)
			opts.Format = format
			_, err = renderCharts(cmd.OutOrStdout(), ds, renderRequest{
				Countries: countries,
				Year:      v.GetInt("year"),
				OutDir:    v.GetString("out"),
				Options:   opts,
			})
			return err
		},
	}

	f := cmd.Flags()
	f.StringArray("country", nil, "country to chart (repeat for several)")
	f.Int("year", 0, "comparison year (default: earliest year in the data)")
	f.String("out", ".", "output directory")
	f.String("format", "png", "image format: png, svg or pdf")
	return cmd
}

type renderRequest struct {
	Countries []string
	Year      int
	OutDir    string
	Options   chart.RenderOptions
}

type chartFile struct {
	name     string
	artifact chart.Artifact
}

// renderCharts writes series.<fmt> and comparison_<year>.<fmt> into
// req.OutDir and returns the paths. With no countries it prints the
// empty-selection message and writes nothing.
func renderCharts(w io.Writer, ds *dataset.Dataset, req renderRequest) ([]string, error) {
	if len(req.Countries) == 0 {
		fmt.Fprintln(w, "No countries selected")
		return nil, nil
	}

	if req.Options.Format == "" {
		req.Options.Format = chart.PNG
	}
	ext := string(req.Options.Format)

	outputs := []chartFile{
		{"series." + ext, chart.BuildSeries(ds, req.Countries)},
	}

	if lo, hi, ok := ds.PeriodRange(); ok {
		year := req.Year
		if year == 0 {
			year = lo
		}
		if !ds.ContainsYear(year) {
			return nil, fmt.Errorf("year %d is outside the data's range %d-%d", year, lo, hi)
		}
		outputs = append(outputs, chartFile{
			fmt.Sprintf("comparison_%d.%s", year, ext),
			chart.BuildComparison(ds, year, req.Countries),
		})
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, o := range outputs {
		path := filepath.Join(req.OutDir, o.name)
		if err := writeChart(path, o.artifact, req.Options); err != nil {
			return paths, err
		}
		log.Printf("📄 Chart written to %s", path)
		fmt.Fprintln(w, path)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChart(path string, a chart.Artifact, opts chart.RenderOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.Render(f, a, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}
