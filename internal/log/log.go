// Package log provides the module's slog setup: a constructor with
// level/format/output knobs and the shared field-key constants.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON for machine parsing.
	FormatJSON Format = "json"
	// FormatText outputs logs in human-readable text form.
	FormatText Format = "text"
)

// Standard field keys so node and agent events stay greppable across
// packages.
const (
	GraphIDKey = "graph_id"
	NodeIDKey  = "node_id"
	BranchKey  = "branch"
	AgentKey   = "agent"
	ToolKey    = "tool"
)

// Config holds the logging configuration.
type Config struct {
	// Level sets the minimum log level (debug, info, warn, error). Default: info.
	Level string
	// Format sets the output format. Default: text.
	Format Format
	// Output is the log writer. Default: os.Stderr.
	Output io.Writer
}

// New builds a slog.Logger from the config.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
