package dataset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// RESHAPE TESTS
// ============================================================================

func TestFromRowsRecordCount(t *testing.T) {
	rows := wideTable(1991, 2020, sampleCountries, nil)

	ds, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	want := len(sampleCountries) * 30
	if ds.Len() != want {
		t.Fatalf("expected %d records, got %d", want, ds.Len())
	}

	type key struct {
		country string
		year    int
	}
	seen := make(map[key]bool)
	perCountry := make(map[string]int)
	for _, r := range ds.All() {
		k := key{r.Country, r.Year}
		if seen[k] {
			t.Fatalf("duplicate record for %s/%d", r.Country, r.Year)
		}
		seen[k] = true
		perCountry[r.Country]++
	}

	total := 0
	for _, n := range perCountry {
		total += n
	}
	if total != (len(rows)-1)*30 {
		t.Errorf("per-country counts sum to %d, want %d", total, (len(rows)-1)*30)
	}
}

func TestFromRowsPivotOrder(t *testing.T) {
	ds, err := FromRows(wideTable(2000, 2002, sampleCountries[:2], nil))
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	want := []struct {
		country string
		year    int
	}{
		{"Aruba", 2000}, {"Afghanistan", 2000},
		{"Aruba", 2001}, {"Afghanistan", 2001},
		{"Aruba", 2002}, {"Afghanistan", 2002},
	}
	records := ds.Records()
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, w := range want {
		if records[i].Country != w.country || records[i].Year != w.year {
			t.Errorf("record %d = %s/%d, want %s/%d", i, records[i].Country, records[i].Year, w.country, w.year)
		}
	}
}

func TestFromRowsMissingCells(t *testing.T) {
	rows := [][]string{
		{"Country Name", "Country Code", "2004", "2005", "2006"},
		{"Aruba", "ABW", "5.1", "NA", "5.3"},
		{"Zimbabwe", "ZWE", "", "..", "4.2"},
		{"Short", "SHR", "1.0"},
	}

	ds, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if ds.Len() != 9 {
		t.Fatalf("expected 9 records, got %d", ds.Len())
	}

	nulls := 0
	for _, r := range ds.All() {
		if !r.HasRate() {
			nulls++
		}
	}
	// Aruba 2005, Zimbabwe 2004, Zimbabwe 2005, Short 2005, Short 2006
	if nulls != 5 {
		t.Errorf("expected 5 missing rates, got %d", nulls)
	}

	for _, r := range ds.All() {
		if r.Country == "Aruba" && r.Year == 2006 {
			if r.Rate == nil || *r.Rate != 5.3 {
				t.Errorf("Aruba 2006 rate = %v, want 5.3", r.Rate)
			}
			if r.Code != "ABW" {
				t.Errorf("Aruba code = %q, want ABW", r.Code)
			}
		}
	}
}

func TestFromRowsIdentifierColumnsAnywhere(t *testing.T) {
	rows := [][]string{
		{"\ufeff1999", "Country Code", " 2000.0 ", "Country Name"},
		{"1.5", "ABW", "2.5", "Aruba"},
	}

	ds, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	lo, hi, ok := ds.PeriodRange()
	if !ok || lo != 1999 || hi != 2000 {
		t.Errorf("PeriodRange = %d..%d (%v), want 1999..2000", lo, hi, ok)
	}
	for _, r := range ds.All() {
		if r.Country != "Aruba" || r.Code != "ABW" {
			t.Errorf("unexpected identifiers %q/%q", r.Country, r.Code)
		}
	}
}

func TestFromRowsSkipsBlankRows(t *testing.T) {
	rows := [][]string{
		{"Country Name", "Country Code", "2001"},
		{"Aruba", "ABW", "3"},
		{},
		{"", " ", ""},
		{"Zimbabwe", "ZWE", "4"},
	}
	ds, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 records, got %d", ds.Len())
	}
}

func TestFromRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{
			name: "empty table",
			rows: nil,
			want: ErrDataUnavailable,
		},
		{
			name: "missing country name",
			rows: [][]string{{"Country", "Country Code", "2000"}, {"Aruba", "ABW", "1"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "missing country code",
			rows: [][]string{{"Country Name", "Code", "2000"}, {"Aruba", "ABW", "1"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "non numeric year",
			rows: [][]string{{"Country Name", "Country Code", "Indicator"}, {"Aruba", "ABW", "x"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "fractional year",
			rows: [][]string{{"Country Name", "Country Code", "2000.5"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "duplicate year",
			rows: [][]string{{"Country Name", "Country Code", "2000", "2000.0"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "non numeric cell",
			rows: [][]string{{"Country Name", "Country Code", "2000"}, {"Aruba", "ABW", "high"}},
			want: ErrSchemaMismatch,
		},
		{
			name: "row wider than header",
			rows: [][]string{{"Country Name", "Country Code", "2000"}, {"Aruba", "ABW", "1", "2"}},
			want: ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows(tt.rows)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromRowsHeaderOnly(t *testing.T) {
	ds, err := FromRows([][]string{{"Country Name", "Country Code", "2000"}})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("expected empty dataset, got %d records", ds.Len())
	}
	if _, _, ok := ds.PeriodRange(); ok {
		t.Error("PeriodRange should report !ok for an empty dataset")
	}
}

// ============================================================================
// SOURCE TESTS
// ============================================================================

func TestReadCSV(t *testing.T) {
	data := toCSV(wideTable(1991, 2020, sampleCountries, nil))

	ds, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if ds.Len() != 90 {
		t.Errorf("expected 90 records, got %d", ds.Len())
	}
}

func TestReadCSVComma(t *testing.T) {
	data := "Country Name;Country Code;2019;2020\nAruba;ABW;7,5;8\n"
	_, err := ReadCSV(strings.NewReader(data), WithComma(';'))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("decimal comma should not parse, got %v", err)
	}

	data = "Country Name;Country Code;2019;2020\nAruba;ABW;7.5;8\n"
	ds, err := ReadCSV(strings.NewReader(data), WithComma(';'))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 records, got %d", ds.Len())
	}
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Country Name,Country Code,2000\n\"Aruba,ABW,1\n"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}

	_, err = ReadCSV(strings.NewReader(""))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for empty input, got %v", err)
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unemployment_data.csv")
	if err := os.WriteFile(path, []byte(toCSV(wideTable(2010, 2012, sampleCountries, nil))), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 9 {
		t.Errorf("expected 9 records, got %d", ds.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the os error to stay wrapped, got %v", err)
	}
}

func writeWorkbook(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet failed: %v", err)
		}
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "unemployment_data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestLoadWorkbookMatchesCSV(t *testing.T) {
	rows := wideTable(1991, 2020, sampleCountries, func(c string, y int) bool {
		return c == "Zimbabwe" && y == 2005
	})
	path := writeWorkbook(t, "Sheet1", rows)

	fromXLSX, err := Load(path)
	if err != nil {
		t.Fatalf("Load xlsx failed: %v", err)
	}
	fromCSV, err := ReadCSV(strings.NewReader(toCSV(rows)))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	a, b := fromXLSX.Records(), fromCSV.Records()
	if len(a) != len(b) {
		t.Fatalf("xlsx has %d records, csv has %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Country != b[i].Country || a[i].Year != b[i].Year || a[i].HasRate() != b[i].HasRate() {
			t.Fatalf("record %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].HasRate() && *a[i].Rate != *b[i].Rate {
			t.Fatalf("record %d rate differs: %v vs %v", i, *a[i].Rate, *b[i].Rate)
		}
	}
}

func TestLoadWorkbookSheet(t *testing.T) {
	path := writeWorkbook(t, "Rates", wideTable(2000, 2001, sampleCountries[:1], nil))

	ds, err := Load(path, WithSheet("Rates"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 records, got %d", ds.Len())
	}

	_, err = Load(path, WithSheet("Missing"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for a missing sheet, got %v", err)
	}
}

func TestLoadBrokenWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
