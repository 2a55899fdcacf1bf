package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the protostate banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Teal/Blue)
	lines := []struct {
		text  string
		color string
	}{
		{"                  _            _        _       ", "#2dd4bf"},
		{"  _ __  _ __ ___ | |_ ___  ___| |_ __ _| |_ ___ ", "#22d3ee"},
		{" | '_ \\| '__/ _ \\| __/ _ \\/ __| __/ _` | __/ _ \\", "#38bdf8"},
		{" | |_) | | | (_) | || (_) \\__ \\ || (_| | ||  __/", "#60a5fa"},
		{" | .__/|_|  \\___/ \\__\\___/|___/\\__\\__,_|\\__\\___|", "#818cf8"},
		{" |_|", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
