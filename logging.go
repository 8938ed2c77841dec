package pointfield

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// With returns a logger whose lines are tagged with an extra component
	// name. It shares outputs and the debug switch with its parent.
	With(component string) Logger
}

// logSink is the state shared by a logger and all of its With children.
type logSink struct {
	mu    sync.Mutex
	debug bool
	out   *log.Logger
	err   *log.Logger
}

type DefaultLogger struct {
	sink   *logSink
	prefix string
}

// NewDefaultLogger writes info and debug lines to stdout, warnings and errors
// to stderr.
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return newLogger(os.Stdout, os.Stderr, log.LstdFlags|log.Lmicroseconds, prefix, debug)
}

func newLogger(out, errOut io.Writer, flags int, prefix string, debug bool) *DefaultLogger {
	return &DefaultLogger{
		sink: &logSink{
			debug: debug,
			out:   log.New(out, "", flags),
			err:   log.New(errOut, "", flags),
		},
		prefix: prefix,
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.sink.mu.Lock()
	l.sink.debug = enabled
	l.sink.mu.Unlock()
}

func (l *DefaultLogger) With(component string) Logger {
	prefix := component
	if l.prefix != "" {
		prefix = l.prefix + "/" + component
	}
	return &DefaultLogger{sink: l.sink, prefix: prefix}
}

func (l *DefaultLogger) line(level string, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return level + ": " + msg
	}
	return fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.sink.out.Print(l.line("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.sink.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.sink.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.sink.err.Print(l.line("ERROR", format, args...))
}

type nopLogger struct{}

// NewNopLogger discards everything. Field falls back to it when built
// without a logger.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) With(string) Logger    { return nopLogger{} }
