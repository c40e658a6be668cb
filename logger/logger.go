// Package logger defines the small logging surface the SDK emits through.
// Callers can plug in slog, zap, logrus, or anything else that speaks
// leveled messages with key=value pairs.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger receives the SDK's leveled log messages. args alternate keys and
// values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// defaultLogger prints through the standard log package
type defaultLogger struct {
	debug bool
}

// NewDefaultLogger returns the logger used when callers don't supply one.
// Debug output is suppressed unless VERDICT_DEBUG=true.
func NewDefaultLogger() Logger {
	debug := strings.ToLower(os.Getenv("VERDICT_DEBUG")) == "true"
	return &defaultLogger{debug: debug}
}

func (l *defaultLogger) Debug(msg string, args ...any) {
	if l.debug {
		l.log("DEBUG", msg, args...)
	}
}

func (l *defaultLogger) Info(msg string, args ...any) {
	l.log("INFO", msg, args...)
}

func (l *defaultLogger) Warn(msg string, args ...any) {
	l.log("WARN", msg, args...)
}

func (l *defaultLogger) Error(msg string, args ...any) {
	l.log("ERROR", msg, args...)
}

func (l *defaultLogger) log(level, msg string, args ...any) {
	formatted := fmt.Sprintf("[verdict] %s: %s", level, msg)
	if len(args) > 0 {
		formatted += " " + formatArgs(args)
	}
	log.Println(formatted)
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	var result string
	for i := 0; i < len(args); i += 2 {
		if i > 0 {
			result += " "
		}
		if i+1 < len(args) {
			result += fmt.Sprintf("%v=%v", args[i], args[i+1])
		} else {
			result += fmt.Sprintf("%v", args[i])
		}
	}
	return result
}

// discardLogger drops everything.
type discardLogger struct{}

// Discard returns a logger that drops every message. Handy in tests and as
// the fallback when no logger is configured.
func Discard() Logger {
	return &discardLogger{}
}

func (l *discardLogger) Debug(msg string, args ...any) {}
func (l *discardLogger) Info(msg string, args ...any)  {}
func (l *discardLogger) Warn(msg string, args ...any)  {}
func (l *discardLogger) Error(msg string, args ...any) {}
