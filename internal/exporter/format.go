package exporter

import (
	"math"
	"strconv"
)

// FormatFloat writes x in the shortest form that parses back to the same
// float64. Integral values keep a trailing ".0", very small or very large
// magnitudes switch to exponent form and NaN becomes an empty cell.
func FormatFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return ""
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	abs := math.Abs(x)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(x, 'e', -1, 64)
	}

	s := strconv.FormatFloat(x, 'f', -1, 64)
	if x == math.Trunc(x) {
		s += ".0"
	}
	return s
}

// FormatInt formats an integer count or degrees of freedom
func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// FormatBool formats a boolean flag
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
