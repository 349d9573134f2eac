package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"unemployment/internal/chart"
	"unemployment/internal/dataset"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

// ============================================================================
// UNEMPLOYMENT DASHBOARD CLI
// ============================================================================

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "dashboard",
		Short: "Unemployment & Job Market Trend Dashboard",
		Long: `Loads a table of unemployment rates (one row per country, one column per
year) and charts it: rates over time for selected countries, and a
single-year comparison between them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(v, cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json) providing any of the flags below")
	pf.String("data", "unemployment_data.csv", "CSV or XLSX table with Country Name, Country Code and one column per year")
	pf.String("sheet", "", "worksheet to read from an XLSX source (default: first sheet)")
	pf.Float64("width", 10, "chart width in inches")
	pf.Float64("height", 5, "chart height in inches")

	root.AddCommand(newServeCmd(v), newRenderCmd(v))
	return root
}

// loadConfig binds the command's flags into v and, when --config is set,
// reads the file. Flags given on the command line win over the file.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	path := v.GetString("config")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	log.Printf("📋 Loaded config: %s", v.ConfigFileUsed())
	return nil
}

func loadDataset(v *viper.Viper) (*dataset.Dataset, error) {
	path := v.GetString("data")

	var opts []dataset.Option
	if sheet := v.GetString("sheet"); sheet != "" {
		opts = append(opts, dataset.WithSheet(sheet))
	}

	ds, err := dataset.Load(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if lo, hi, ok := ds.PeriodRange(); ok {
		log.Printf("📊 Loaded %d records: %d countries, %d-%d", ds.Len(), len(ds.Countries()), lo, hi)
	} else {
		log.Printf("⚠️ %s has no data rows", path)
	}
	return ds, nil
}

func renderOptions(v *viper.Viper) chart.RenderOptions {
	return chart.RenderOptions{
		Width:  vg.Length(v.GetFloat64("width")) * vg.Inch,
		Height: vg.Length(v.GetFloat64("height")) * vg.Inch,
	}
}
