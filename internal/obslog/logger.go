package obslog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger. Callers are expected to build one at startup
// and pass it down explicitly; nothing in this package keeps a package-level
// singleton, so tests and multiple server instances never fight over global
// log state.
type Logger struct {
	zerolog.Logger
}

// Options controls how New builds the underlying zerolog logger.
type Options struct {
	// Level is one of: debug, info, warn, error, off.
	Level string
	// Format is "json" (default) or "console" for human-readable output.
	Format string
	// Output defaults to os.Stderr when nil.
	Output io.Writer
}

// New builds a Logger from Options. An unknown Level falls back to info.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(opts.Level)
	if opts.Level == "off" {
		lvl, err = zerolog.Disabled, nil
	}
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return Logger{Logger: l}
}

// Nop returns a Logger that discards everything, for tests that don't care
// about log output.
func Nop() Logger {
	return Logger{Logger: zerolog.Nop()}
}

// WithComponent returns a child logger tagged with a "component" field,
// the idiom used throughout this codebase instead of ad hoc Printf prefixes.
func (l Logger) WithComponent(name string) Logger {
	return Logger{Logger: l.Logger.With().Str("component", name).Logger()}
}

// Fatalf logs at error level and exits the process. Reserved for startup
// failures in cmd/ packages, never library code.
func (l Logger) Fatalf(format string, args ...any) {
	l.Error().Msg(fmt.Sprintf(format, args...))
	os.Exit(1)
}
