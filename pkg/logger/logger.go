// Package logger is the process-wide structured logger. The printf-style
// helpers write JSON records through log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var base = New("info", os.Stdout)

// Init replaces the process logger (called once from main).
func Init(level string) {
	base = New(level, os.Stdout)
	slog.SetDefault(base)
}

func New(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "timestamp"
			case slog.LevelKey:
				a.Key = "level"
				lvl := a.Value.String()
				if lvl == "WARN" {
					lvl = "warning"
				}
				a.Value = slog.StringValue(strings.ToLower(lvl))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying the given key/value pairs.
func With(args ...any) *slog.Logger {
	return base.With(args...)
}

func Infof(format string, v ...any) {
	base.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	base.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	base.Error(fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) {
	base.Debug(fmt.Sprintf(format, v...))
}

func Fatalf(format string, v ...any) {
	base.Error(fmt.Sprintf(format, v...), "fatal", true)
	os.Exit(1)
}
