// Package logger provides the process-wide structured logger backed by
// zerolog. Initialise once at startup with Init, then derive per-component
// loggers with Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger behaviour at initialisation time.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Unrecognised or empty values fall back to "info".
	Level string
	// Service is stamped on every line so aggregated logs stay attributable.
	Service string
	// Pretty enables human-friendly console output for local development.
	// Production keeps pure JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	root        zerolog.Logger
	once        sync.Once
	initialized bool
)

// Init builds the root logger. Only the first call has any effect.
func Init(cfg Config) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		if cfg.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(lvl)

		ctx := zerolog.New(out).Level(lvl).With().Timestamp()
		if cfg.Service != "" {
			ctx = ctx.Str("service", cfg.Service)
		}
		root = ctx.Logger()
		initialized = true
	})
	return root
}

// Get returns the root logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return root
}

// Component returns a child logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset tears down the singleton so the next Init call rebuilds it.
// Only for tests.
func Reset() {
	once = sync.Once{}
	root = zerolog.Logger{}
	initialized = false
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
