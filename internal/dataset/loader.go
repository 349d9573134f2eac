package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// LOADER: wide table (one column per year) → long records
// ============================================================================
// Source layout:
//
//	Country Name,Country Code,1991,1992,...
//	Aruba,ABW,,5.8,...
//
// Every column other than the two identifier columns is a year. Output
// contains one Record per (row, year column), emitted column by column.
// ============================================================================

// Identifier column labels expected in the header row.
const (
	CountryNameColumn = "Country Name"
	CountryCodeColumn = "Country Code"
)

// Cell values treated as missing, in addition to the empty string.
var missingTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-NaN": true, "-nan": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true, "..": true,
}

// Load reads the table at path and reshapes it. Workbooks (.xlsx, .xlsm,
// .xltx) are read with excelize; any other file is read as CSV.
func Load(path string, opts ...Option) (*Dataset, error) {
	cfg := applyOptions(opts)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		rows, err := readWorkbook(path, cfg.Sheet)
		if err != nil {
			return nil, err
		}
		return FromRows(rows)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer file.Close()

	return ReadCSV(file, opts...)
}

// ReadCSV reads a CSV table from r and reshapes it.
func ReadCSV(r io.Reader, opts ...Option) (*Dataset, error) {
	cfg := applyOptions(opts)

	reader := csv.NewReader(r)
	reader.Comma = cfg.Comma
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %w", ErrDataUnavailable, err)
	}
	return FromRows(rows)
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", ErrDataUnavailable, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrDataUnavailable, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrDataUnavailable, sheet, err)
	}
	return rows, nil
}

type periodColumn struct {
	index int
	label string
	year  int
}

type sourceRow struct {
	line  int
	cells []string
}

// FromRows reshapes an in-memory table whose first row is the header.
func FromRows(rows [][]string) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no header row", ErrDataUnavailable)
	}

	header := rows[0]
	nameCol, codeCol := -1, -1
	var periods []periodColumn
	seenYears := make(map[int]string)

	for i, label := range header {
		if i == 0 {
			label = strings.TrimPrefix(label, "\ufeff")
		}
		label = strings.TrimSpace(label)

		switch label {
		case CountryNameColumn:
			nameCol = i
			continue
		case CountryCodeColumn:
			codeCol = i
			continue
		}

		year, err := parseYear(label)
		if err != nil {
			return nil, fmt.Errorf("%w: column %d label %q is not a year", ErrSchemaMismatch, i+1, label)
		}
		if prev, dup := seenYears[year]; dup {
			return nil, fmt.Errorf("%w: columns %q and %q both hold year %d", ErrSchemaMismatch, prev, label, year)
		}
		seenYears[year] = label
		periods = append(periods, periodColumn{index: i, label: label, year: year})
	}

	if nameCol < 0 {
		return nil, fmt.Errorf("%w: missing %q column", ErrSchemaMismatch, CountryNameColumn)
	}
	if codeCol < 0 {
		return nil, fmt.Errorf("%w: missing %q column", ErrSchemaMismatch, CountryCodeColumn)
	}

	body := make([]sourceRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrSchemaMismatch, line, len(row), len(header))
		}
		body = append(body, sourceRow{line: line, cells: row})
	}

	records := make([]Record, 0, len(periods)*len(body))
	for _, p := range periods {
		for _, row := range body {
			raw := cell(row.cells, p.index)
			rate, err := parseRate(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d, column %q: %q is not a number",
					ErrSchemaMismatch, row.line, p.label, raw)
			}
			records = append(records, Record{
				Country: cell(row.cells, nameCol),
				Code:    cell(row.cells, codeCol),
				Year:    p.year,
				Rate:    rate,
			})
		}
	}

	return newDataset(records), nil
}

// ============================================================================
// HELPERS
// ============================================================================

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseYear accepts "1991" and integral floats such as "1991.0".
func parseYear(label string) (int, error) {
	if year, err := strconv.Atoi(label); err == nil {
		return year, nil
	}
	f, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("year %q is not an integer", label)
	}
	return int(f), nil
}

func parseRate(raw string) (*float64, error) {
	if raw == "" || missingTokens[raw] {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}
