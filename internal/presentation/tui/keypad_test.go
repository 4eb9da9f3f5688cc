package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypadMarkdown_ListsEveryKey(t *testing.T) {
	md := KeypadMarkdown()
	for _, k := range domain.Keypad {
		assert.Contains(t, md, "| `"+k.Label+"` |", "missing key %q", k.Label)
	}
	assert.Contains(t, md, "`sin⁻¹` | `asin` |")
}

func TestKeypadSections_CoverAllKinds(t *testing.T) {
	for _, k := range domain.Keypad {
		found := false
		for _, s := range keypadSections {
			if hasKind(s.kinds, k.Kind) {
				found = true
			}
		}
		assert.True(t, found, "kind %s has no section", k.Kind)
	}
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# Keypad")
	require.NoError(t, err)
	assert.Contains(t, out, "Keypad")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "v1.2.3")
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 7)
}
