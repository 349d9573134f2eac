// Package dataset loads unemployment tables and reshapes them into one
// record per (country, year) cell.
package dataset

import (
	"iter"
	"slices"
)

// ============================================================================
// RECORD: one (country, year) cell of the source table
// ============================================================================

// Record is a single long-format row.
// Rate is nil when the source cell was empty or marked missing.
type Record struct {
	Country string   `json:"country"`
	Code    string   `json:"code"`
	Year    int      `json:"year"`
	Rate    *float64 `json:"rate"`
}

// HasRate reports whether the record carries a value.
func (r Record) HasRate() bool { return r.Rate != nil }

// ============================================================================
// DATASET: read-only sequence of records
// ============================================================================

// Dataset is the normalized, long-format table. It is built once by the
// loader and never mutated afterwards, so a single *Dataset can be shared by
// every request without locking.
type Dataset struct {
	records   []Record
	countries []string
	minYear   int
	maxYear   int
}

func newDataset(records []Record) *Dataset {
	ds := &Dataset{records: records}

	seen := make(map[string]bool)
	for i, r := range records {
		if !seen[r.Country] {
			seen[r.Country] = true
			ds.countries = append(ds.countries, r.Country)
		}
		if i == 0 || r.Year < ds.minYear {
			ds.minYear = r.Year
		}
		if i == 0 || r.Year > ds.maxYear {
			ds.maxYear = r.Year
		}
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// All yields records in pivot order: for each year column of the source,
// every country row in file order.
func (d *Dataset) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the records. Rate pointers are shared; callers
// must treat them as read-only.
func (d *Dataset) Records() []Record {
	return slices.Clone(d.records)
}

// Countries returns the unique country names in first-seen order.
func (d *Dataset) Countries() []string {
	return slices.Clone(d.countries)
}

// PeriodRange returns the smallest and largest year present.
// ok is false for an empty dataset.
func (d *Dataset) PeriodRange() (minYear, maxYear int, ok bool) {
	if len(d.records) == 0 {
		return 0, 0, false
	}
	return d.minYear, d.maxYear, true
}

// ContainsYear reports whether year lies inside PeriodRange.
func (d *Dataset) ContainsYear(year int) bool {
	lo, hi, ok := d.PeriodRange()
	return ok && year >= lo && year <= hi
}
