package log

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
)

// ProgramLevel is the common log level.
var ProgramLevel = new(slog.LevelVar)

// New returns a logger writing to stderr for the given component at the
// program level.
func New(component string) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, component, nil))
}

// ParseLevel parses a level name (debug, info, warn, error).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level '%s'", s)
}

// Fatal is equivalent to Print() followed by a call to os.Exit(1).
func Fatal(v ...any) {
	log.Default().Print(v...)
	os.Exit(1)
}

// Fatalf is equivalent to Printf() followed by a call to os.Exit(1).
func Fatalf(format string, v ...any) {
	log.Default().Printf(format, v...)
	os.Exit(1)
}
