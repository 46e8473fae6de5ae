// Package cli implements the vibecheck console command.
//
// The command asks for a topic on standard input, spins the style wheel,
// prints the chosen style, and prints the explanation the model returns.
// Diagnostics go to standard error through charmbracelet/log; the level
// comes from LOG_LEVEL.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "vibecheck",
	})
}
