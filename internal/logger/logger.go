package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"log/slog"
)

var (
	levelVar      slog.LevelVar
	loggerMu      sync.RWMutex
	baseLogger    *slog.Logger
	output        io.Writer = os.Stdout
	handlerFormat string    = "text"
)

func init() {
	levelVar.Set(slog.LevelInfo)
	baseLogger = newLogger(output, handlerFormat)
}

func newLogger(w io.Writer, fmtName string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: &levelVar}
	if fmtName == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func SetOutput(w io.Writer) {
	loggerMu.Lock()
	output = w
	baseLogger = newLogger(output, handlerFormat)
	loggerMu.Unlock()
}

// SetFormat switches between "text" (default) and "json" handlers.
func SetFormat(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name != "json" {
		name = "text"
	}
	loggerMu.Lock()
	handlerFormat = name
	baseLogger = newLogger(output, handlerFormat)
	loggerMu.Unlock()
}

func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		levelVar.Set(slog.LevelDebug)
	case "info":
		levelVar.Set(slog.LevelInfo)
	case "warn", "warning":
		levelVar.Set(slog.LevelWarn)
	case "error":
		levelVar.Set(slog.LevelError)
	default:
		levelVar.Set(slog.LevelInfo)
	}
}

// Level reports the active level name.
func Level() string {
	return strings.ToLower(levelVar.Level().String())
}

func activeLogger() *slog.Logger {
	loggerMu.RLock()
	l := baseLogger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if baseLogger == nil {
		baseLogger = newLogger(output, handlerFormat)
	}
	return baseLogger
}

// With returns a structured logger carrying the given attributes, e.g. a
// command trace id and target server.
func With(args ...any) *slog.Logger {
	return activeLogger().With(args...)
}

func Debugf(format string, v ...any) {
	activeLogger().Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	activeLogger().Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	activeLogger().Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	activeLogger().Error(fmt.Sprintf(format, v...))
}
