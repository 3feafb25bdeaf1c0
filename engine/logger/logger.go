package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"go.trai.ch/zerr"
)

// nopHandler discards every record. Enabled reports false so callers skip
// attribute formatting when logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger shared by every engine package.
// The engine is silent until SetLogger is called. Passing nil restores the silent default.
//
// Levels used by the engine:
//   - slog.LevelDebug: resource allocation, rollbacks, registry bookkeeping
//   - slog.LevelInfo: device and window lifecycle
//   - slog.LevelWarn: lights skipped for a frame, destruction after device loss
//
// Parameters:
//   - l: the logger to install, or nil to disable logging
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger currently installed via SetLogger.
//
// Returns:
//   - *slog.Logger: the active logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// ErrUnknownLevel is returned by ParseLevel for names it does not recognise.
var ErrUnknownLevel = zerr.New("unknown log level")

// ParseLevel maps a level name (debug, info, warn, error) to its slog.Level.
//
// Parameters:
//   - name: the case-insensitive level name
//
// Returns:
//   - slog.Level: the parsed level
//   - error: ErrUnknownLevel if the name is not recognised
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, zerr.With(zerr.Wrap(ErrUnknownLevel, "parse level"), "level", name)
	}
}

// NewTextLogger builds a text logger writing to w at the given level.
func NewTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
