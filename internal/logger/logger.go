// Package logger builds the slog loggers used by the command-line tools.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Opt func(o *opts)

type opts struct {
	writer  io.Writer
	level   slog.Level
	format  string
	noColor bool
}

func WithWriter(w io.Writer) Opt {
	return func(o *opts) {
		o.writer = w
	}
}

func WithLevel(lvl slog.Level) Opt {
	return func(o *opts) {
		o.level = lvl
	}
}

// WithFormat selects FormatText (colored, for terminals) or FormatJSON.
func WithFormat(format string) Opt {
	return func(o *opts) {
		o.format = format
	}
}

func WithNoColor(noColor bool) Opt {
	return func(o *opts) {
		o.noColor = noColor
	}
}

// New returns a logger writing to stderr at info level unless configured
// otherwise.
func New(opt ...Opt) (*slog.Logger, error) {
	o := &opts{
		writer: os.Stderr,
		level:  slog.LevelInfo,
		format: FormatText,
	}
	for _, apply := range opt {
		apply(o)
	}

	switch strings.ToLower(o.format) {
	case FormatText, "":
		return slog.New(tint.NewHandler(o.writer, &tint.Options{
			Level:      o.level,
			TimeFormat: "[15:04:05.000]",
			NoColor:    o.noColor,
		})), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(o.writer, &slog.HandlerOptions{
			Level: o.level,
		})), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", o.format)
	}
}

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
