package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderNameField is the name editor shared by the add and rename modals: the input on a
// shaded line of exactly bodyW cells, with an optional muted hint below it.
func renderNameField(bodyW int, inputView, hint string) string {
	bodyW = max(10, bodyW)

	// textinput may emit a trailing newline with some cursor modes; the modal must not wrap.
	inputView = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(inputView)

	shade := lipgloss.NewStyle().Background(colorInputBg)
	line := shade.Render(" ") + inputView
	if w := xansi.StringWidth(line); w < bodyW {
		line += shade.Render(strings.Repeat(" ", bodyW-w))
	} else if w > bodyW {
		line = xansi.Truncate(line, bodyW, "") + "\x1b[0m"
	}

	if hint == "" {
		return line
	}
	return line + "\n" + styleMuted().Render(xansi.Truncate(hint, bodyW, "…"))
}
