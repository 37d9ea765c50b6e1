package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/manto/manto-cli/internal/config"
)

// New builds a logger from the logging section of the configuration. Output
// goes to stderr so command output on stdout stays clean.
func New(cfg config.LoggingConfig) zerolog.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

func NewWithOutput(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(level).With()
	if cfg.IncludeTimestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.IncludeSource {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}
