package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"vaxetl/internal/exporter"
)

// parseFloat parses a trimmed decimal. NaN counts as missing.
func parseFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseNumber coerces a cell to a float. Anything that is not a number is
// missing rather than an error.
func ParseNumber(raw string) (float64, bool) {
	return parseFloat(raw)
}

// ParseInteger coerces a cell to an integer. Integral floats such as "2020.0"
// are accepted; fractional or out of range values are missing.
func ParseInteger(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	f, ok := parseFloat(s)
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

var trueFlags = map[string]bool{"yes": true, "y": true, "1": true, "true": true}

// ParseFlag maps an introduction cell to a boolean. Only yes, y, 1 and true
// (any case) are true; everything else, missing included, is false.
func ParseFlag(raw string) bool {
	return trueFlags[strings.ToLower(strings.TrimSpace(raw))]
}

func coerceFloats(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if f, ok := ParseNumber(v); ok {
			out[i] = exporter.FormatFloat(f)
		}
	}
	return out
}

func coerceIntegers(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if n, ok := ParseInteger(v); ok {
			out[i] = exporter.FormatInt(n)
		}
	}
	return out
}

func coercePercents(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if f, ok := ParsePercent(v); ok {
			out[i] = exporter.FormatFloat(f)
		}
	}
	return out
}

func coerceFlags(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = exporter.FormatBool(ParseFlag(v))
	}
	return out
}
