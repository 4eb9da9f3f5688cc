package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// keypadSections orders the keypad reference.
var keypadSections = []struct {
	title string
	kinds []domain.KeyKind
}{
	{"Numbers", []domain.KeyKind{domain.KeyDigit, domain.KeyConstant, domain.KeyAnswer}},
	{"Operators", []domain.KeyKind{domain.KeyOperator, domain.KeyParen}},
	{"Functions", []domain.KeyKind{domain.KeyFunction, domain.KeyFactorial, domain.KeyReciprocal}},
	{"Control", []domain.KeyKind{domain.KeyClear, domain.KeyDelete, domain.KeyEquals, domain.KeyToggleAngle}},
}

// KeypadMarkdown describes every key as Markdown tables.
func KeypadMarkdown() string {
	var b strings.Builder
	b.WriteString("# Keypad\n\n")
	b.WriteString("Type keys separated by spaces or run together, e.g. `sin(30)+2=`.\n")

	for _, section := range keypadSections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.title)
		b.WriteString("| Key | Also | Does |\n|---|---|---|\n")
		for _, k := range domain.Keypad {
			if !hasKind(section.kinds, k.Kind) {
				continue
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", k.Label, aliases(k.Aliases), escape(k.Help))
		}
	}
	return b.String()
}

func hasKind(kinds []domain.KeyKind, kind domain.KeyKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func aliases(as []string) string {
	if len(as) == 0 {
		return ""
	}
	quoted := make([]string, len(as))
	for i, a := range as {
		quoted[i] = "`" + a + "`"
	}
	return strings.Join(quoted, " ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
