package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibraryResolver(t *testing.T) {
	r := NewLibraryResolver()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "france", input: "France", want: "FRA", wantOK: true},
		{name: "germany", input: "Germany", want: "DEU", wantOK: true},
		{name: "surrounding spaces", input: "  Japan ", want: "JPN", wantOK: true},
		{name: "united states", input: "United States", want: "USA", wantOK: true},
		{name: "accented", input: "Côte d'Ivoire", want: "CIV", wantOK: true},
		{name: "parenthesized qualifier", input: "Bolivia (Plurinational State of)", want: "BOL", wantOK: true},
		{name: "formal united kingdom", input: "United Kingdom of Great Britain and Northern Ireland", want: "GBR", wantOK: true},
		{name: "formal tanzania", input: "United Republic of Tanzania", want: "TZA", wantOK: true},
		{name: "formal palestine", input: "occupied Palestinian territory, including east Jerusalem", want: "PSE", wantOK: true},
		{name: "formal iran", input: "Islamic Republic of Iran", want: "IRN", wantOK: true},
		{name: "unknown", input: "Atlantis", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLibraryResolver_Memoizes(t *testing.T) {
	r := NewLibraryResolver()

	first, ok := r.Resolve("France")
	assert.True(t, ok)
	_, _ = r.Resolve("Atlantis")

	assert.Len(t, r.cache, 2)
	second, _ := r.Resolve("France")
	assert.Equal(t, first, second)
	assert.Len(t, r.cache, 2)
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "Cote d'Ivoire", foldAccents("Côte d'Ivoire"))
	assert.Equal(t, "Curacao", foldAccents("Curaçao"))
	assert.Equal(t, "Plain", foldAccents("Plain"))
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "COTEDIVOIRE", nameKey("Côte d'Ivoire"))
	assert.Equal(t, "UNITEDREPUBLICOFTANZANIA", nameKey("United Republic of Tanzania"))
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{"United States": "USA"}

	got, ok := r.Resolve(" united states ")
	assert.True(t, ok)
	assert.Equal(t, "USA", got)

	_, ok = r.Resolve("Canada")
	assert.False(t, ok)
}
