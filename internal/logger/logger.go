// Package logger provides verbose logging for the ideabox CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr as slog text records so users can follow
// store mutations and enrichment requests.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// quiet is above every level slog emits, so nothing passes when verbose is off.
const quiet = slog.LevelError + 4

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr

	level = func() *slog.LevelVar {
		v := new(slog.LevelVar)
		v.Set(quiet)
		return v
	}()

	root = slog.New(slog.NewTextHandler(writerFunc(write), &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: dropTime,
	}))
)

// writerFunc adapts a function to io.Writer so the destination can be
// swapped after loggers derived with With have been handed out.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func write(p []byte) (int, error) {
	mu.RLock()
	defer mu.RUnlock()
	return output.Write(p)
}

// dropTime removes the timestamp; CLI output is read as it happens.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(quiet)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// With returns a logger carrying the given attributes. It follows later
// SetVerbose and SetOutput calls.
func With(args ...any) *slog.Logger {
	return root.With(args...)
}

// Debug logs a message with key-value attributes if verbose mode is enabled.
func Debug(msg string, args ...any) {
	root.Debug(msg, args...)
}

// Info logs an informational message if verbose mode is enabled.
func Info(msg string, args ...any) {
	root.Info(msg, args...)
}

// Warn logs a warning if verbose mode is enabled.
func Warn(msg string, args ...any) {
	root.Warn(msg, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
