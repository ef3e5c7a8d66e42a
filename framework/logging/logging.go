// Package logging builds the structured loggers used across the framework.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/km-arc/chefling/framework/config"
)

// New builds a logger writing to w from the log section of the config.
//
//	logger, err := logging.New(cfg.Log, os.Stderr)
func New(cfg config.LogConfig, w io.Writer) (*log.Logger, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	formatter, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Prefix:    cfg.Prefix,
		Formatter: formatter,
	}), nil
}

// ForContainer derives the logger handed to the container. With trace
// enabled it logs every resolution step regardless of the base level.
func ForContainer(base *log.Logger, cfg config.ContainerConfig) *log.Logger {
	l := base.With("component", "container")
	if cfg.Trace {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseFormat(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", format)
	}
}
