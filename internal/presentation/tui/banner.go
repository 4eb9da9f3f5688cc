package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ABACUS banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Amber to teal, one colour per line.
	lines := []struct {
		text, color string
	}{
		{"     _    ____    _    ____ _   _ ____  ", "#fbbf24"},
		{"    / \\  | __ )  / \\  / ___| | | / ___| ", "#a3e635"},
		{"   / _ \\ |  _ \\ / _ \\| |   | | | \\___ \\ ", "#4ade80"},
		{"  / ___ \\| |_) / ___ \\ |___| |_| |___) |", "#2dd4bf"},
		{" /_/   \\_\\____/_/   \\_\\____|\\___/|____/ ", "#22d3ee"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
