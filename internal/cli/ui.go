package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleLabel     = lipgloss.NewStyle().Foreground(colorGray)
	styleIconError = lipgloss.NewStyle().Foreground(colorRed)
)

const iconError = "✗"

// printPrompt writes a prompt without a trailing newline.
func printPrompt(w io.Writer, msg string) {
	fmt.Fprint(w, styleTitle.Render(msg))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleLabel.Render(key)+" "+styleValue.Render(value))
}

// PrintError writes err the way the command reports failures.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+err.Error())
}
