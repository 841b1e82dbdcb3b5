package loader

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"vaxetl/internal/store"
	"vaxetl/pkg/contracts/domain"
)

func TestUnionDistinct(t *testing.T) {
	coverage := domain.NewFrame(
		[]string{"antigen", "antigen_description", "year"},
		[][]string{
			{"DTP3", "DTP third dose", "2020"},
			{"DTP3", "DTP third dose", "2021"},
			{"MCV1", "Measles first dose", "2020"},
		},
	)
	schedule := domain.NewFrame(
		[]string{"vaccinecode", "vaccine_description"},
		[][]string{
			{"DTP3", "DTP third dose"},
			{"DTP3", "Diphtheria tetanus pertussis"},
			{"HEPB", "Hepatitis B"},
		},
	)

	rows := UnionDistinct(
		DimensionSource{Frame: coverage, KeyColumn: "antigen", ValueColumn: "antigen_description"},
		DimensionSource{Frame: schedule, KeyColumn: "vaccinecode", ValueColumn: "vaccine_description"},
	)

	assert.Equal(t, [][]string{
		{"DTP3", "DTP third dose"},
		{"MCV1", "Measles first dose"},
		{"DTP3", "Diphtheria tetanus pertussis"},
		{"HEPB", "Hepatitis B"},
	}, rows)
}

func TestUnionDistinct_SkipsSourcesWithoutKey(t *testing.T) {
	incidence := domain.NewFrame([]string{"disease"}, [][]string{{"MEASLES"}})
	cases := domain.NewFrame([]string{"iso3"}, [][]string{{"USA"}})

	rows := UnionDistinct(
		DimensionSource{Frame: incidence, KeyColumn: "disease", ValueColumn: "disease_description"},
		DimensionSource{Frame: cases, KeyColumn: "disease", ValueColumn: "disease_description"},
		DimensionSource{Frame: nil, KeyColumn: "disease", ValueColumn: "disease_description"},
	)

	assert.Equal(t, [][]string{{"MEASLES", ""}}, rows)
}

func TestNewKeyMap(t *testing.T) {
	keys := NewKeyMap([]store.KeyRow{
		{ID: 1, Key: sql.NullString{String: "USA", Valid: true}},
		{ID: 2, Key: sql.NullString{}},
		{ID: 3, Key: sql.NullString{String: "", Valid: true}},
		{ID: 4, Key: sql.NullString{String: "USA", Valid: true}},
		{ID: 5, Key: sql.NullString{String: "FRA", Valid: true}},
	})

	assert.Equal(t, KeyMap{"USA": 4, "FRA": 5}, keys, "later ids win and empty keys are skipped")

	id, ok := keys.Lookup("FRA")
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	_, ok = keys.Lookup("")
	assert.False(t, ok)

	assert.Equal(t, "4", keys.Resolve("USA"))
	assert.Equal(t, "", keys.Resolve("ATL"))
}

func TestCountryRows(t *testing.T) {
	coverage := domain.NewFrame(
		[]string{"iso3", "country", "antigen"},
		[][]string{
			{"USA", "United States", "DTP3"},
			{"USA", "United States", "MCV1"},
			{"FRA", "France", "DTP3"},
			{"", "Atlantis", "DTP3"},
		},
	)
	intro := domain.NewFrame(
		[]string{"iso3", "who_region"},
		[][]string{{"USA", "AMR"}, {"USA", "EUR"}, {"FRA", "EUR"}},
	)

	assert.Equal(t, [][]string{
		{"USA", "United States", "AMR"},
		{"FRA", "France", "EUR"},
		{"", "Atlantis", ""},
	}, countryRows(coverage, intro))

	noRegion := domain.NewFrame([]string{"iso3", "year"}, nil)
	assert.Equal(t, [][]string{
		{"USA", "United States", ""},
		{"FRA", "France", ""},
		{"", "Atlantis", ""},
	}, countryRows(coverage, noRegion))
}
