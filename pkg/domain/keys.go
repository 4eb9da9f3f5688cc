package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// KeyKind groups keys by how the engine handles them.
type KeyKind string

const (
	KeyDigit       KeyKind = "digit"
	KeyOperator    KeyKind = "operator"
	KeyFunction    KeyKind = "function"
	KeyConstant    KeyKind = "constant"
	KeyParen       KeyKind = "paren"
	KeyFactorial   KeyKind = "factorial"
	KeyReciprocal  KeyKind = "reciprocal"
	KeyClear       KeyKind = "clear"
	KeyDelete      KeyKind = "delete"
	KeyEquals      KeyKind = "equals"
	KeyToggleAngle KeyKind = "toggle_angle"
	KeyAnswer      KeyKind = "answer"
)

// Literal text appended by the constant keys.
const (
	PiText    = "3.141592653589793"
	EulerText = "2.718281828459045"
)

// Key is one entry of the keypad vocabulary.
type Key struct {
	// Label is the canonical button label.
	Label string  `json:"label"`
	Kind  KeyKind `json:"kind"`
	// Text is what the key appends to the equation, if anything.
	Text    string   `json:"text,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Help    string   `json:"help"`
}

// Appends reports whether pressing the key only extends the equation.
func (k Key) Appends() bool {
	switch k.Kind {
	case KeyDigit, KeyOperator, KeyFunction, KeyConstant, KeyParen:
		return true
	}
	return false
}

func fn(label, name, help string, aliases ...string) Key {
	return Key{Label: label, Kind: KeyFunction, Text: name + "(", Aliases: aliases, Help: help}
}

// Keypad lists the closed key vocabulary in keypad order.
var Keypad = []Key{
	{Label: "AC", Kind: KeyClear, Help: "clear everything"},
	{Label: "DEL", Kind: KeyDelete, Help: "delete the last character"},
	{Label: "RAD/DEG", Kind: KeyToggleAngle, Aliases: []string{"RAD", "DEG"}, Help: "toggle radians and degrees"},
	{Label: "ANS", Kind: KeyAnswer, Help: "insert the last result"},
	fn("sin", "sin", "sine"),
	fn("cos", "cos", "cosine"),
	fn("tan", "tan", "tangent"),
	fn("sin⁻¹", "asin", "inverse sine", "asin"),
	fn("cos⁻¹", "acos", "inverse cosine", "acos"),
	fn("tan⁻¹", "atan", "inverse tangent", "atan"),
	fn("log", "log", "base-10 logarithm"),
	fn("ln", "ln", "natural logarithm"),
	fn("√", "sqrt", "square root", "sqrt"),
	{Label: "x!", Kind: KeyFactorial, Aliases: []string{"!"}, Help: "factorial of the current value"},
	{Label: "1/x", Kind: KeyReciprocal, Help: "reciprocal of the current value"},
	{Label: "π", Kind: KeyConstant, Text: PiText, Aliases: []string{"pi"}, Help: "pi"},
	{Label: "e", Kind: KeyConstant, Text: EulerText, Help: "Euler's number"},
	{Label: "(", Kind: KeyParen, Text: "(", Help: "open parenthesis"},
	{Label: ")", Kind: KeyParen, Text: ")", Help: "close parenthesis"},
	{Label: "^", Kind: KeyOperator, Text: "^", Aliases: []string{"x^y"}, Help: "power"},
	{Label: "÷", Kind: KeyOperator, Text: "÷", Aliases: []string{"/"}, Help: "divide"},
	{Label: "×", Kind: KeyOperator, Text: "×", Aliases: []string{"*"}, Help: "multiply"},
	{Label: "-", Kind: KeyOperator, Text: "-", Aliases: []string{"—"}, Help: "subtract"},
	{Label: "+", Kind: KeyOperator, Text: "+", Help: "add"},
	{Label: "7", Kind: KeyDigit, Text: "7"},
	{Label: "8", Kind: KeyDigit, Text: "8"},
	{Label: "9", Kind: KeyDigit, Text: "9"},
	{Label: "4", Kind: KeyDigit, Text: "4"},
	{Label: "5", Kind: KeyDigit, Text: "5"},
	{Label: "6", Kind: KeyDigit, Text: "6"},
	{Label: "1", Kind: KeyDigit, Text: "1"},
	{Label: "2", Kind: KeyDigit, Text: "2"},
	{Label: "3", Kind: KeyDigit, Text: "3"},
	{Label: "0", Kind: KeyDigit, Text: "0"},
	{Label: ".", Kind: KeyDigit, Text: ".", Help: "decimal point"},
	{Label: "=", Kind: KeyEquals, Help: "evaluate"},
}

var (
	keyIndex map[string]Key
	// spellings sorted longest first, for SplitKeys.
	spellings []string
)

func init() {
	keyIndex = make(map[string]Key)
	for _, k := range Keypad {
		keyIndex[k.Label] = k
		for _, a := range k.Aliases {
			keyIndex[a] = k
		}
	}
	for s := range keyIndex {
		spellings = append(spellings, s)
	}
	sort.Slice(spellings, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(spellings[i]), utf8.RuneCountInString(spellings[j])
		if li != lj {
			return li > lj
		}
		return spellings[i] < spellings[j]
	})
}

// LookupKey resolves a label or alias to its key.
func LookupKey(label string) (Key, bool) {
	k, ok := keyIndex[label]
	return k, ok
}

// SplitKeys splits free text into key labels by longest match, skipping
// whitespace. A "(" right after a function name belongs to the function key,
// so "sin⁻¹(0.5)=" yields sin⁻¹ 0 . 5 ) =.
func SplitKeys(line string) ([]string, error) {
	var labels []string
	col := 0
	for len(line) > 0 {
		r, size := utf8.DecodeRuneInString(line)
		if unicode.IsSpace(r) {
			line = line[size:]
			col++
			continue
		}
		matched := ""
		for _, s := range spellings {
			if strings.HasPrefix(line, s) {
				matched = s
				break
			}
		}
		if matched == "" {
			return nil, fmt.Errorf("%w: %q at column %d", ErrUnknownKey, string(r), col+1)
		}
		labels = append(labels, matched)
		line = line[len(matched):]
		col += utf8.RuneCountInString(matched)
		// Function keys open their own parenthesis.
		if keyIndex[matched].Kind == KeyFunction && strings.HasPrefix(line, "(") {
			line = line[1:]
			col++
		}
	}
	return labels, nil
}
