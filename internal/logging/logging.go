// Package logging builds the zerolog logger used for diagnostics.
//
// Diagnostics are separate from command output: commands write their
// results to stdout and the single failure line to stderr, while the logger
// records what the chain executor did and is silent unless a level is set.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel disables diagnostics so an ordinary run writes nothing but
// command output.
const DefaultLevel = "disabled"

// New returns a logger at the given level. When file is set, JSON lines are
// appended to it; otherwise a console writer on fallback is used.
//
// The returned closer must be called once logging is finished.
func New(level, file string, fallback io.Writer) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), closer, err
	}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("create logs dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }

		l := zerolog.New(f).With().Timestamp().Logger().Level(lvl)
		return l, closer, nil
	}

	console := zerolog.ConsoleWriter{Out: fallback, NoColor: true, TimeFormat: "15:04:05"}
	l := zerolog.New(console).With().Timestamp().Logger().Level(lvl)
	return l, closer, nil
}

// ParseLevel accepts the zerolog level names plus "" (the default level).
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
