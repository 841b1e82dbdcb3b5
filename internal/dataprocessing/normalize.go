package dataprocessing

import (
	"strings"

	"vaxetl/pkg/contracts/domain"
)

// NormalizeColumnName lower-cases and trims a header and replaces every run of
// whitespace with a single underscore: " WHO  Region " becomes "who_region".
func NormalizeColumnName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// NormalizeColumns returns a copy of f with normalized column names.
func NormalizeColumns(f *domain.Frame) *domain.Frame {
	out := f.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = NormalizeColumnName(c)
	}
	return out
}

// Rename maps an alternate column name to its canonical name
type Rename struct {
	From string
	To   string
}

// RenameTable is an ordered list of renames applied to a normalized frame
type RenameTable []Rename

// Apply renames every column matching an entry, in table order. Entries whose
// source column is absent are ignored.
func (t RenameTable) Apply(f *domain.Frame) *domain.Frame {
	out := f.Clone()
	for _, r := range t {
		if r.From == r.To {
			continue
		}
		for out.Rename(r.From, r.To) {
		}
	}
	return out
}

// Common renames shared by the WHO exports
var (
	countryCodeRenames = RenameTable{
		{From: "code", To: "iso3"},
		{From: "name", To: "country"},
	}
	isoCodeRenames = RenameTable{
		{From: "iso_3_code", To: "iso3"},
		{From: "country_name", To: "country"},
	}
)
