// Package preprocess rewrites keypad notation into the syntax understood by
// the expression evaluator.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

var symbols = strings.NewReplacer(
	"÷", "/",
	"×", "*",
	"—", "-",
	"π", domain.PiText,
	"e", domain.EulerText,
)

var (
	// The exponent alternative matches first so formatted results such as
	// 1E+20 are left for the evaluator to read as numbers.
	digitThenCall  = regexp.MustCompile(`\d(?:E[+-]?\d|[a-zA-Z(])`)
	closeThenDigit = regexp.MustCompile(`(\))(\d)`)
	closeThenOpen  = regexp.MustCompile(`(\))(\()`)
)

// forward functions take degrees, inverse functions return degrees.
var (
	forwardTrig = regexp.MustCompile(`\b(sin|cos|tan)\(`)
	inverseTrig = regexp.MustCompile(`\b(asin|acos|atan)\(`)
)

// Preprocess turns the equation text into a canonical expression. It never
// fails; text it does not recognise is passed through for the evaluator to
// reject.
//
// The degree wrappers open a parenthesis that the call's own closing
// parenthesis is expected to balance, so only single, non-nested trig calls
// are wrapped exactly.
func Preprocess(raw string, mode domain.AngleMode) string {
	s := symbols.Replace(raw)
	s = strings.ReplaceAll(s, "^", "**")

	s = digitThenCall.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) > 2 {
			return m
		}
		return m[:1] + "*" + m[1:]
	})
	s = closeThenDigit.ReplaceAllString(s, "$1*$2")
	s = closeThenOpen.ReplaceAllString(s, "$1*$2")

	if mode == domain.Degrees {
		s = forwardTrig.ReplaceAllString(s, "${1}(degToRad(")
		s = inverseTrig.ReplaceAllString(s, "radToDeg(${1}(")
	}
	return s
}
