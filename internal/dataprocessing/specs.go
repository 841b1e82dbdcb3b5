package dataprocessing

import (
	"vaxetl/pkg/contracts/domain"
)

// Derivation writes a coerced copy of Source into Target
type Derivation struct {
	Source string
	Target string
}

// DatasetSpec declares how one raw export becomes a cleaned artifact.
type DatasetSpec struct {
	Dataset domain.Dataset
	Renames RenameTable

	// Percent parses Source with ParsePercent into Target when Source exists
	Percent *Derivation

	// FloatColumns and IntColumns are coerced in place, created empty when absent
	FloatColumns []string
	IntColumns   []string

	// Flag maps Source through ParseFlag into Target; a missing Source yields all false
	Flag *Derivation
}

// Specs returns the cleaning declaration for every dataset, in run order.
func Specs() []DatasetSpec {
	return []DatasetSpec{
		{
			Dataset: domain.DatasetCoverage,
			Renames: append(RenameTable{
				{From: "dodge", To: "doses_administered"},
				{From: "doses", To: "doses_administered"},
			}, countryCodeRenames...),
			Percent:    &Derivation{Source: "coverage", Target: "coverage_percent"},
			IntColumns: []string{"year"},
		},
		{
			Dataset:      domain.DatasetIncidence,
			Renames:      countryCodeRenames,
			FloatColumns: []string{"incidence_rate"},
			IntColumns:   []string{"year"},
		},
		{
			Dataset:    domain.DatasetReportedCases,
			Renames:    countryCodeRenames,
			IntColumns: []string{"cases", "year"},
		},
		{
			Dataset:    domain.DatasetVaccineIntroduction,
			Renames:    isoCodeRenames,
			IntColumns: []string{"year"},
			Flag:       &Derivation{Source: "intro", Target: "introduced"},
		},
		{
			Dataset:    domain.DatasetVaccineSchedule,
			Renames:    isoCodeRenames,
			IntColumns: []string{"year"},
		},
	}
}

// SpecFor returns the declaration of a single dataset
func SpecFor(d domain.Dataset) (DatasetSpec, bool) {
	for _, s := range Specs() {
		if s.Dataset == d {
			return s, true
		}
	}
	return DatasetSpec{}, false
}
