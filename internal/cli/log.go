// Package cli implements the fractaldraw command-line interface.
//
// Commands:
//   - list: the curve catalog as a table
//   - draw: animate a curve level by level in the terminal
//   - render: write SVG, PNG or JSON files for one level or all levels
//   - expand, info: print the symbol string or its statistics
//   - grammar: draw the production rules as a graph
//   - serve: run the HTTP API
//   - cache: manage the render cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// to read settings from a TOML file other than the default.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps
// formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times an operation and logs its completion at debug level.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond and
// returns that time.
// Example output: "rendered 3 files (41ms)"
func (p *progress) done(msg string, keyvals ...any) time.Duration {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Debug(msg, append(keyvals, "elapsed", elapsed)...)
	return elapsed
}
