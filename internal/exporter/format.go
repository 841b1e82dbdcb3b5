package exporter

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat formats a value the way the artifacts have always carried
// numbers: integral values keep a trailing ".0", very small or very large
// magnitudes use exponent notation, NaN is a missing cell.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatInt formats an int64 value for CSV output
func FormatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FormatBool formats a boolean value for CSV output
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
