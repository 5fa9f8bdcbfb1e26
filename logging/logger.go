// Package logging wraps github.com/rs/zerolog into the structured
// logger the Driver and CLI pass down to every pipeline stage. Unlike a
// package-global logger, a *Logger is injected explicitly (spec.md §6:
// "logging is via a host-provided sink"), keeping it orthogonal to the
// PRNG-as-argument discipline the core observes elsewhere.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names the four levels the core's host-provided sink contract
// requires (spec.md §6).
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the on-disk/console rendering of log records.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	// Quiet suppresses everything below Warn, overriding Level. The CLI
	// sets it from the config file's logging.quiet; driver.Options has no
	// quiet field of its own.
	Quiet bool
}

// Logger is the structured logger injected into the Driver (via
// driver.Options.Logger) so progress and errors land wherever the host
// wants them.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var output io.Writer = cfg.Output
	if cfg.Format == FormatText {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(output).With().Timestamp().Logger()
	level := zerolog.InfoLevel
	switch cfg.Level {
	case LevelDebug:
		level = zerolog.DebugLevel
	case LevelWarn:
		level = zerolog.WarnLevel
	case LevelError:
		level = zerolog.ErrorLevel
	}
	if cfg.Quiet && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	return &Logger{zl: zl.Level(level)}
}

// Nop returns a Logger that discards every record, for callers (and
// tests) that don't want progress output.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(msg string, fields map[string]any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields map[string]any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields map[string]any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields map[string]any) { l.emit(l.zl.Error(), msg, fields) }

func (l *Logger) emit(event *zerolog.Event, msg string, fields map[string]any) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// With returns a child Logger carrying an additional field on every
// subsequent record, such as the per-epsilon context the Driver attaches
// (e.g. {"epsilon": 0.7}).
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}
