// Package logger holds the process-wide zerolog logger. Call Init once during
// startup, then Get from anywhere that cannot be handed the logger directly.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level name ("debug", "info", ...). Unknown or
	// empty names fall back to info.
	Level string
	// Pretty switches from JSON lines to the human console writer. Leave it
	// off in production.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
	ready    bool
)

// Init builds the singleton. Later calls are no-ops and return the first
// logger.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		level, err := zerolog.ParseLevel(opts.Level)
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		instance = zerolog.New(out).Level(level).With().Timestamp().Logger()
		ready = true
	})
	return instance
}

// Get returns the singleton. It panics when Init has not run.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get called before Init")
	}
	return instance
}
