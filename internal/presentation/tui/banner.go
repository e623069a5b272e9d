package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to amber, the colours of the delivery admin panel.
	lines := []struct {
		text, color string
	}{
		{"              _   _      __ _           _           ", "#2dd4bf"},
		{"  _ __   __ _| |_| |__  / _(_)_ __   __| | ___ _ __ ", "#34d399"},
		{" | '_ \\ / _` | __| '_ \\| |_| | '_ \\ / _` |/ _ \\ '__|", "#a3e635"},
		{" | |_) | (_| | |_| | | |  _| | | | | (_| |  __/ |   ", "#facc15"},
		{" | .__/ \\__,_|\\__|_| |_|_| |_|_| |_|\\__,_|\\___|_|   ", "#fbbf24"},
		{" |_|                                                ", "#f59e0b"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
