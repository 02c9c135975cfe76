package publish

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

// TerminalStyle picks a glamour style for the current stdout: "notty" when output is
// redirected, otherwise dark or light by the terminal background.
func TerminalStyle() string {
	out := termenv.NewOutput(os.Stdout)
	if out.Profile == termenv.Ascii {
		return styles.NoTTYStyle
	}
	if out.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

// Render formats markdown for the terminal. An empty style means TerminalStyle.
func Render(md string, width int, style string) (string, error) {
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = TerminalStyle()
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
