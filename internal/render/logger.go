package render

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures logging for the renderer. The package is silent until
// this is called. Passing nil restores the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: per-frame drops, per-image resources
//   - [slog.LevelInfo]: device selection, swapchain creation and rebuilds
//   - [slog.LevelWarn]: rejected devices, teardown failures, validation warnings
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// LogValidation is a gpu.DebugCallback that forwards validation messages to
// Logger at a level matching their severity.
func LogValidation(severity gpu.DebugSeverity, message string) {
	level := slog.LevelDebug
	switch severity {
	case gpu.DebugSeverityInfo:
		level = slog.LevelInfo
	case gpu.DebugSeverityWarning:
		level = slog.LevelWarn
	case gpu.DebugSeverityError:
		level = slog.LevelError
	}
	Logger().Log(context.Background(), level, "validation", "message", message)
}
