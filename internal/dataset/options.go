package dataset

// Option configures how Load and ReadCSV read the source table.
type Option func(*config)

type config struct {
	Sheet string // workbook sheet; empty means the first sheet
	Comma rune   // CSV field separator
}

// WithSheet selects the worksheet to read from an XLSX source.
func WithSheet(name string) Option {
	return func(c *config) {
		c.Sheet = name
	}
}

// WithComma sets the CSV field separator (default ',').
func WithComma(r rune) Option {
	return func(c *config) {
		if r != 0 {
			c.Comma = r
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{Comma: ','}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
