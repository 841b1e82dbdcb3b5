package domain

// ColumnKind tells the store how to type a cell when persisting it.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindReal
	KindBool
)

// Column is one destination column of a star-schema table.
type Column struct {
	Name string
	Kind ColumnKind
}

// Table describes the insertable columns of a destination table. The surrogate
// id column is assigned by the store and never listed.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in insert order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Dimension tables.
var (
	CountryTable = Table{Name: "country", Columns: []Column{
		{"iso3", KindText}, {"name", KindText}, {"who_region", KindText},
	}}
	VaccineTable = Table{Name: "vaccine", Columns: []Column{
		{"code", KindText}, {"description", KindText},
	}}
	DiseaseTable = Table{Name: "disease", Columns: []Column{
		{"code", KindText}, {"description", KindText},
	}}
)

// Fact tables.
var (
	CoverageTable = Table{Name: "coverage", Columns: []Column{
		{"country_id", KindInteger},
		{"vaccine_id", KindInteger},
		{"year", KindInteger},
		{"coverage_category", KindText},
		{"coverage_category_description", KindText},
		{"target_number", KindReal},
		{"doses_administered", KindReal},
		{"coverage", KindText},
		{"coverage_percent", KindReal},
	}}
	IncidenceTable = Table{Name: "incidence", Columns: []Column{
		{"country_id", KindInteger},
		{"disease_id", KindInteger},
		{"year", KindInteger},
		{"denominator", KindText},
		{"incidence_rate", KindReal},
	}}
	ReportedCasesTable = Table{Name: "reported_cases", Columns: []Column{
		{"country_id", KindInteger},
		{"disease_id", KindInteger},
		{"year", KindInteger},
		{"cases", KindInteger},
	}}
	VaccineIntroductionTable = Table{Name: "vaccine_introduction", Columns: []Column{
		{"country_id", KindInteger},
		{"vaccine_id", KindInteger},
		{"year", KindInteger},
		{"description", KindText},
		{"introduced", KindBool},
	}}
	VaccineScheduleTable = Table{Name: "vaccine_schedule", Columns: []Column{
		{"country_id", KindInteger},
		{"vaccine_id", KindInteger},
		{"year", KindInteger},
		{"schedulerounds", KindText},
		{"targetpop", KindText},
		{"targetpop_description", KindText},
		{"geoarea", KindText},
		{"ageadministered", KindText},
		{"sourcecomment", KindText},
	}}
)
