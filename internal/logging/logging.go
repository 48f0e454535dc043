// Package logging wires charmbracelet/log for the tinyjson command.
//
// Loggers travel through context.Context so each pipeline stage can report
// progress without global state. Debug output is enabled with --debug.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger that writes to w and filters below level.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "tinyjson",
	})
}

// Level maps the debug switch to a log level.
func Level(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

// Stage measures one pipeline step. Not safe for concurrent use.
type Stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

// StartStage records the start time of the named step.
func StartStage(l *log.Logger, name string) *Stage {
	return &Stage{logger: l, name: name, start: time.Now()}
}

// Done logs the step with its elapsed time and any extra key/value pairs.
func (s *Stage) Done(keyvals ...interface{}) {
	kv := append([]interface{}{"stage", s.name, "elapsed", time.Since(s.start).Round(time.Microsecond)}, keyvals...)
	s.logger.Debug("stage complete", kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or log.Default().
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
