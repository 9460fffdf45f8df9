package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ClickPath banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`   ___ _ _    _   ___      _   _    `, "#38bdf8"},
		{`  / __| (_)__| |_| _ \__ _| |_| |_  `, "#0ea5e9"},
		{` | (__| | / _| / /  _/ _' |  _| ' \ `, "#0284c7"},
		{`  \___|_|_\__|_\_\_| \__,_|\__|_||_|`, "#0369a1"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  guided tours, "+version).Faint())
	fmt.Fprintln(w)
}
