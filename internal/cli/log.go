// Package cli implements the samplesize command-line interface.
//
// The commands calculate sample sizes for the supported study designs, draw
// the dot-matrix chart in the terminal, run batches of scenarios from YAML,
// TOML or JSON files, serve the HTTP API and manage the result cache. The CLI
// is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - calc: Calculate the sample size for one design
//   - grid: Pack two group counts into a dot-matrix layout
//   - designs: List designs and their input fields
//   - batch: Run every scenario in a file
//   - interactive: Adjust inputs with the keyboard and watch the result update
//   - serve: Run the HTTP API
//   - cache, config: Inspect and manage local state
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs calculation and cache events. Loggers are passed through
// context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/samplesize/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a message with the time elapsed since it was created, e.g.
// "Calculated 12 scenarios (4ms)". Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
