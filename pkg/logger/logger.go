// Package logger holds the process-wide zerolog logger of the restaurant API.
//
// cmd calls Init once; services and workers receive a Component logger so every
// event carries the service, version and component that emitted it.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches to coloured console output for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, Version and Env become fields on every event when set.
	Service string
	Version string
	Env     string
}

var (
	mu     sync.Mutex
	root   zerolog.Logger
	active bool
)

// Init builds the root logger. Only the first call since the last Reset has
// an effect; later calls return the existing logger.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if active {
		return root
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	fields := zerolog.New(out).Level(lvl).With().Timestamp().Caller()
	for key, val := range map[string]string{"service": opts.Service, "version": opts.Version, "env": opts.Env} {
		if val != "" {
			fields = fields.Str(key, val)
		}
	}
	root = fields.Logger()
	active = true
	return root
}

// Get returns the root logger. It panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !active {
		panic("logger: Get() called before Init()")
	}
	return root
}

// Component tags the root logger with the emitting component, e.g. "checkout"
// or "cart-cleanup".
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the root logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	root = zerolog.Logger{}
	active = false
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
