package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	` _                                     _   `,
	`| |__   __ _ _   _  ___  ___ _ __   ___| |_ `,
	`| '_ \ / _' | | | |/ _ \/ __| '_ \ / _ \ __|`,
	`| |_) | (_| | |_| |  __/\__ \ | | |  __/ |_ `,
	`|_.__/ \__,_|\__, |\___||___/_| |_|\___|\__|`,
	`             |___/                          `,
}

// Indigo to rose, one color per line.
var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// PrintBanner writes the ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
