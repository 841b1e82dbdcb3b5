package domain

// Dataset identifies one of the five source spreadsheets and its cleaned artifact.
type Dataset string

const (
	DatasetCoverage            Dataset = "coverage"
	DatasetIncidence           Dataset = "incidence"
	DatasetReportedCases       Dataset = "reported_cases"
	DatasetVaccineIntroduction Dataset = "vaccine_introduction"
	DatasetVaccineSchedule     Dataset = "vaccine_schedule"
)

var rawFileNames = map[Dataset]string{
	DatasetCoverage:            "coverage-data.xlsx",
	DatasetIncidence:           "incidence-rate-data.xlsx",
	DatasetReportedCases:       "reported-cases-data.xlsx",
	DatasetVaccineIntroduction: "vaccine-introduction-data.xlsx",
	DatasetVaccineSchedule:     "vaccine-schedule-data.xlsx",
}

// AllDatasets returns the datasets in the order the cleaner processes them.
func AllDatasets() []Dataset {
	return []Dataset{
		DatasetCoverage,
		DatasetIncidence,
		DatasetReportedCases,
		DatasetVaccineIntroduction,
		DatasetVaccineSchedule,
	}
}

// Valid reports whether d is one of the known datasets.
func (d Dataset) Valid() bool {
	_, ok := rawFileNames[d]
	return ok
}

// RawFileName is the spreadsheet export name inside the raw directory.
func (d Dataset) RawFileName() string {
	return rawFileNames[d]
}

// CleanFileName is the cleaned CSV artifact name inside the clean directory.
func (d Dataset) CleanFileName() string {
	return string(d) + "_clean.csv"
}

// DisplayName is the human readable name used in console output.
func (d Dataset) DisplayName() string {
	switch d {
	case DatasetReportedCases:
		return "reported cases"
	case DatasetVaccineIntroduction:
		return "vaccine introduction"
	case DatasetVaccineSchedule:
		return "vaccine schedule"
	default:
		return string(d)
	}
}

// ParseDataset converts a CLI argument into a Dataset.
func ParseDataset(s string) (Dataset, bool) {
	d := Dataset(s)
	return d, d.Valid()
}
