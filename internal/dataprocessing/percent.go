package dataprocessing

import (
	"strings"
)

// missingTokens are the placeholders the exports use for "no value".
var missingTokens = map[string]bool{
	"":              true,
	"-":             true,
	"—":             true,
	"na":            true,
	"n/a":           true,
	"not available": true,
	"not reported":  true,
}

// IsMissingToken reports whether raw is a placeholder for a missing value.
// Matching ignores case and surrounding whitespace.
func IsMissingToken(raw string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// ParsePercent converts a coverage cell into a number.
//
//	"45%"  -> 45
//	"<1"   -> 0.5 (a "less than N" cell counts as N/2)
//	"87.5" -> 87.5
//
// Placeholders and anything unparseable report ok == false. It never panics.
func ParsePercent(raw string) (value float64, ok bool) {
	s := strings.TrimSpace(raw)
	if IsMissingToken(s) {
		return 0, false
	}
	if strings.Contains(s, "%") {
		return parseFloat(strings.ReplaceAll(s, "%", ""))
	}
	if rest, found := strings.CutPrefix(s, "<"); found {
		v, ok := parseFloat(rest)
		if !ok {
			return 0, false
		}
		return v / 2, true
	}
	return parseFloat(s)
}
