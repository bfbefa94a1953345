// Package log provides a *Logger wrapping log/slog with a dual JSON-file /
// text-stderr handler and lumberjack-backed rotation, in the idiom the rest
// of this codebase's pack uses for structured logging. Unlike the teacher's
// version, it carries no crash-report HTTP client — that exists to phone a
// network collector, which is out of scope for the flight-control core.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a *slog.Logger. A nil *Logger is safe to call Debugf/Infof on
// (they become no-ops); Warnf/Errorf on a nil receiver fall back to the
// package-level slog default so failures are never silently swallowed. The
// methods promoted from the embedded *slog.Logger (Debug, Info, Warn, Error)
// are not nil-safe.
type Logger struct {
	*slog.Logger
	rotate *lumberjack.Logger
}

// New creates a Logger that writes JSON-formatted records to a rotated file
// under dir (via lumberjack) and human-readable text to stderr at the given
// level ("debug", "info", "warn", "error"). With an empty dir it writes only
// the stderr text output.
func New(dir string, level string) *Logger {
	lv := parseLevel(level)

	if dir == "" {
		return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))}
	}

	rotate := &lumberjack.Logger{
		Filename:   dir + "/p6dof.log",
		MaxSize:    64, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
	}

	jsonHandler := slog.NewJSONHandler(rotate, &slog.HandlerOptions{Level: lv})
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})

	return &Logger{
		Logger: slog.New(&fanoutHandler{json: jsonHandler, text: textHandler}),
		rotate: rotate,
	}
}

func parseLevel(s string) slog.Level {
	switch s {
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

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || l.Logger == nil {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l == nil || l.Logger == nil {
		return
	}
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l == nil || l.Logger == nil {
		slog.Warn(fmt.Sprintf(format, args...))
		return
	}
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l == nil || l.Logger == nil {
		slog.Error(fmt.Sprintf(format, args...))
		return
	}
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) With(args ...interface{}) *Logger {
	if l == nil || l.Logger == nil {
		return l
	}
	return &Logger{Logger: l.Logger.With(args...), rotate: l.rotate}
}

// fanoutHandler forwards every record to both a JSON file handler and a
// text stderr handler.
type fanoutHandler struct {
	json, text slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.json.Enabled(ctx, level) || h.text.Enabled(ctx, level)
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	if h.json.Enabled(ctx, r.Level) {
		err = h.json.Handle(ctx, r.Clone())
	}
	if h.text.Enabled(ctx, r.Level) {
		if terr := h.text.Handle(ctx, r.Clone()); terr != nil && err == nil {
			err = terr
		}
	}
	return err
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fanoutHandler{json: h.json.WithAttrs(attrs), text: h.text.WithAttrs(attrs)}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return &fanoutHandler{json: h.json.WithGroup(name), text: h.text.WithGroup(name)}
}
