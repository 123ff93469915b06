// Package cli implements the cmdtower command-line interface.
//
// The CLI packs command chains into command block cubes, re-exports saved
// layouts, serves the pipeline over HTTP and manages the cache and the
// configuration file. It is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - place: Place a chain document and write structure files or diagrams
//   - render: Export a saved layout in other formats
//   - view: Browse a layout layer by layer
//   - curve: Print the snake curve through a cuboid
//   - serve: Run the HTTP API
//   - events: Extract command block messages from a server log
//   - cache, config: Manage the cache and the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/cmdtower/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// levelEnv overrides the default log level, e.g. CMDTOWER_LOG_LEVEL=debug.
const levelEnv = "CMDTOWER_LOG_LEVEL"

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// resolveLevel picks the log level for a run. --verbose always wins; otherwise
// the environment may lower or raise the default info level.
func resolveLevel(verbose bool, env string) (log.Level, error) {
	if verbose {
		return log.DebugLevel, nil
	}
	env = strings.TrimSpace(env)
	if env == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(env))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%s: %w", levelEnv, err)
	}
	return level, nil
}

// envLevel reads levelEnv from the process environment.
func envLevel() string { return os.Getenv(levelEnv) }

// progress times one pipeline stage and logs its completion.
type progress struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func newProgress(l *log.Logger, stage string) *progress {
	return &progress{logger: l, stage: stage, start: time.Now()}
}

// elapsed is the time since the stage started, rounded to milliseconds.
func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg with the stage name, the elapsed time and any extra keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"stage", p.stage, "elapsed", p.elapsed()}, keyvals...)
	p.logger.Info(msg, kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
