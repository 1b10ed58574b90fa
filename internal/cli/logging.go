package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables that affect logging, checked ahead of --verbose and
// --quiet so debugging a CI run never requires touching its invocation.
const (
	EnvDebug     = "SVER_DEBUG"
	EnvLogFormat = "SVER_LOG_FORMAT"
)

// SetupLogging configures the global slog default logger with the given
// level and format, writing to os.Stderr so stdout stays clean for calc's
// digest output.
func SetupLogging(level slog.Level, format string) {
	SetupLoggingWithWriter(level, format, os.Stderr)
}

// SetupLoggingWithWriter configures the global slog default logger with the
// given level, format, and output writer.
func SetupLoggingWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ResolveLogLevel determines the slog.Level from CLI flags and environment
// variables. Priority, highest to lowest:
//
//  1. SVER_DEBUG=1 -> slog.LevelDebug
//  2. --verbose -> slog.LevelDebug
//  3. --quiet -> slog.LevelError
//  4. default -> slog.LevelInfo
//
// If both verbose and quiet are set, verbose wins.
func ResolveLogLevel(verbose, quiet bool) slog.Level {
	if os.Getenv(EnvDebug) == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ResolveLogFormat reads SVER_LOG_FORMAT and returns "json" or "text".
func ResolveLogFormat() string {
	if strings.EqualFold(os.Getenv(EnvLogFormat), "json") {
		return "json"
	}
	return "text"
}
