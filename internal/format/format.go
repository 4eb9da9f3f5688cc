// Package format renders evaluator results for the calculator display.
package format

import (
	"math"
	"strconv"
	"strings"
)

const (
	zeroEpsilon   = 1e-12
	integralLimit = 1e15
	roundTripTol  = 1e-10
	significant   = 10
)

// Format renders x the way the display shows it.
//
// NaN is "Error", infinities are "∞" and "-∞", magnitudes below 1e-12 are "0",
// integral values below 1e15 print as plain integers and everything else uses
// ten significant digits with trailing zeros removed. Exponents use an upper
// case E so the result can be typed back into an equation.
func Format(x float64) string {
	switch {
	case math.IsNaN(x):
		return "Error"
	case math.IsInf(x, 1):
		return "∞"
	case math.IsInf(x, -1):
		return "-∞"
	case math.Abs(x) < zeroEpsilon:
		return "0"
	}

	if x == math.Floor(x) && math.Abs(x) < integralLimit {
		n := int64(math.Round(x))
		if math.Abs(float64(n)-x) < roundTripTol {
			return strconv.FormatInt(n, 10)
		}
	}

	return significantDigits(x)
}

func significantDigits(x float64) string {
	s := strconv.FormatFloat(x, 'g', significant, 64)
	s = strings.ReplaceAll(s, ",", ".")

	mantissa, exp := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp = s[:i], "E"+s[i+1:]
	}
	if strings.Contains(mantissa, ".") {
		mantissa = strings.TrimRight(mantissa, "0")
		mantissa = strings.TrimSuffix(mantissa, ".")
	}
	return mantissa + exp
}
