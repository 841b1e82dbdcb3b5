package dataprocessing

import (
	"strings"
	"unicode"

	"github.com/biter777/countries"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CountryResolver maps a free-text country name to an ISO 3166-1 alpha-3 code.
// A miss, including an ambiguous name, is reported as ok == false and is never
// an error.
type CountryResolver interface {
	Resolve(name string) (iso3 string, ok bool)
}

type resolution struct {
	iso3 string
	ok   bool
}

// LibraryResolver resolves names against the ISO 3166 database bundled with
// github.com/biter777/countries. Lookups are memoized. It is not safe for
// concurrent use.
type LibraryResolver struct {
	cache map[string]resolution
}

// NewLibraryResolver creates a resolver with an empty cache
func NewLibraryResolver() *LibraryResolver {
	return &LibraryResolver{cache: make(map[string]resolution)}
}

// Resolve looks name up as given and, on a miss, once more with accents
// stripped so "Côte d'Ivoire" and "Cote d'Ivoire" resolve alike. Formal
// names such as "United Republic of Tanzania" fall back to the official-name
// index.
func (r *LibraryResolver) Resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if hit, ok := r.cache[name]; ok {
		return hit.iso3, hit.ok
	}

	res := resolution{}
	if iso3, ok := lookupCountry(name); ok {
		res = resolution{iso3: iso3, ok: true}
	} else if folded := foldAccents(name); folded != name {
		if iso3, ok := lookupCountry(folded); ok {
			res = resolution{iso3: iso3, ok: true}
		}
	}
	if !res.ok {
		if iso3, ok := officialIndex[nameKey(name)]; ok {
			res = resolution{iso3: iso3, ok: true}
		}
	}
	r.cache[name] = res
	return res.iso3, res.ok
}

func lookupCountry(name string) (string, bool) {
	code := countries.ByName(name)
	if code == countries.Unknown {
		return "", false
	}
	iso3 := code.Alpha3()
	if len(iso3) != 3 {
		return "", false
	}
	return iso3, true
}

// officialNames lists formal names used in WHO reporting that the library's
// alias table does not carry.
var officialNames = map[string]string{
	"United Kingdom of Great Britain and Northern Ireland":     "GBR",
	"occupied Palestinian territory, including east Jerusalem": "PSE",
	"Kingdom of the Netherlands":                               "NLD",
	"Republic of Türkiye":                                      "TUR",
}

var officialIndex = buildOfficialIndex()

// buildOfficialIndex keys every ISO name in its official word order, so
// "Tanzania (United Republic of)" is found as "United Republic of Tanzania".
func buildOfficialIndex() map[string]string {
	index := make(map[string]string, len(officialNames)+len(countries.All()))
	for _, code := range countries.All() {
		iso3 := code.Alpha3()
		if len(iso3) != 3 {
			continue
		}
		name := code.String()
		index[nameKey(name)] = iso3
		open := strings.Index(name, "(")
		if open < 0 || !strings.HasSuffix(name, ")") {
			continue
		}
		base := strings.TrimSpace(name[:open])
		qualifier := strings.TrimSpace(name[open+1 : len(name)-1])
		index[nameKey(qualifier+" "+base)] = iso3
	}
	for name, iso3 := range officialNames {
		index[nameKey(name)] = iso3
	}
	return index
}

// nameKey reduces a name to its upper-case letters with accents removed.
func nameKey(name string) string {
	var b strings.Builder
	for _, r := range foldAccents(name) {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}

// StaticResolver resolves from a fixed name table. Matching ignores case and
// surrounding whitespace.
type StaticResolver map[string]string

// Resolve implements CountryResolver
func (s StaticResolver) Resolve(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for k, v := range s {
		if strings.ToLower(k) == key {
			return v, true
		}
	}
	return "", false
}
