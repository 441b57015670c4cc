// Package logger provides the process-wide structured logger.
//
// Package-level helpers (Info, Warn, Error, Debug) take a message followed by
// alternating key/value pairs. Components that want their own name in the
// output ask for a child logger with Named.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// Options controls how the root logger is built.
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

var (
	mu   sync.RWMutex
	root = newRoot(Options{
		Level: os.Getenv("LOG_LEVEL"),
		JSON:  os.Getenv("LOG_FORMAT") == "json",
	})
)

func newRoot(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "cineclass",
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
}

// Configure replaces the root logger. Loggers handed out by Named before the
// call keep their old settings.
func Configure(opts Options) {
	l := newRoot(opts)
	mu.Lock()
	root = l
	mu.Unlock()
}

// Root returns the current root logger.
func Root() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a component logger.
func Named(name string) hclog.Logger {
	return Root().Named(name)
}

// Info logs informational messages
func Info(msg string, args ...interface{}) {
	Root().Info(msg, flatten(args)...)
}

// Warn logs warning messages
func Warn(msg string, args ...interface{}) {
	Root().Warn(msg, flatten(args)...)
}

// Error logs error messages
func Error(msg string, args ...interface{}) {
	Root().Error(msg, flatten(args)...)
}

// Debug logs debug messages
func Debug(msg string, args ...interface{}) {
	Root().Debug(msg, flatten(args)...)
}

// flatten expands Field values into key/value pairs so callers can mix both
// styles.
func flatten(args []interface{}) []interface{} {
	hasField := false
	for _, a := range args {
		switch a.(type) {
		case Field, []Field:
			hasField = true
		}
	}
	if !hasField {
		return args
	}

	out := make([]interface{}, 0, len(args)*2)
	for _, a := range args {
		switch v := a.(type) {
		case Field:
			out = append(out, v.Key, v.Value)
		case []Field:
			for _, f := range v {
				out = append(out, f.Key, f.Value)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}

// Helper functions for common field types
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Err(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: nil}
	}
	return Field{Key: key, Value: err.Error()}
}

// LevelFromConfig normalises a configured level name.
func LevelFromConfig(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return "info"
	}
	return level
}
