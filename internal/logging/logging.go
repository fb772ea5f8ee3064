// Package logging builds the stderr logger shared by the command-line tools.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing level-prefixed lines to w. Timestamps are
// off; the tools run as build steps whose logs are already timestamped.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
