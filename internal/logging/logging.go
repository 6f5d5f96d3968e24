// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/Carmen-Shannon/oxy-orbit/internal/config"
	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to w at the configured level.
// Console output uses zerolog.ConsoleWriter; otherwise one JSON object per line.
//
// Parameters:
//   - cfg: the logging settings
//   - w: the destination, usually os.Stderr
//
// Returns:
//   - zerolog.Logger: the logger
//   - error: error if the level is not recognised
func New(cfg config.LoggingConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := w
	if cfg.Console {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "oxy-orbit").
		Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}
