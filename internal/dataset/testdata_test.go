package dataset

import (
	"fmt"
	"strings"
)

// wideTable renders a header plus one row per country covering years
// first..last. Cells for which skip returns true are left empty.
func wideTable(first, last int, countries [][2]string, skip func(country string, year int) bool) [][]string {
	header := []string{CountryNameColumn, CountryCodeColumn}
	for y := first; y <= last; y++ {
		header = append(header, fmt.Sprintf("%d", y))
	}
	rows := [][]string{header}
	for ci, c := range countries {
		row := []string{c[0], c[1]}
		for y := first; y <= last; y++ {
			if skip != nil && skip(c[0], y) {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprintf("%.1f", float64(ci+1)+float64(y-first)/10))
		}
		rows = append(rows, row)
	}
	return rows
}

func toCSV(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}
	return b.String()
}

var sampleCountries = [][2]string{
	{"Aruba", "ABW"},
	{"Afghanistan", "AFG"},
	{"Zimbabwe", "ZWE"},
}
