// Package simlog is a small leveled logger shared by the allocator and
// cache engines, the session layer, and the RPC front end.
package simlog

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Level represents the logging level.
type Level int32

const (
	// LevelNone disables all logging.
	LevelNone Level = iota
	// LevelFatal enables fatal logging.
	LevelFatal
	// LevelError enables error and fatal logging.
	LevelError
	// LevelInfo enables info, error, and fatal logging.
	LevelInfo
	// LevelDebug enables all logging.
	LevelDebug
)

// ParseLevel maps a flag value to a Level, defaulting to LevelInfo for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "none":
		return LevelNone
	case "fatal":
		return LevelFatal
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var currentLevel atomic.Int32

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel changes the process-wide log level.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return Level(currentLevel.Load()) >= l
}

var (
	debugLogger = log.New(os.Stdout, "[DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger  = log.New(os.Stdout, "[INFO] ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger = log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile)
	fatalLogger = log.New(os.Stderr, "[FATAL] ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Logger is a named front for the shared loggers, so each package can tag
// its own lines (e.g. "partition", "buddy", "cache") without instantiating
// a separate *log.Logger per engine.
type Logger struct {
	tag string
}

// New returns a Logger that prefixes every line with tag.
func New(tag string) *Logger {
	return &Logger{tag: "[" + tag + "] "}
}

// Debug logs debug information.
func (l *Logger) Debug(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		debugLogger.Output(2, l.tag+fmt.Sprintf(format, v...))
	}
}

// Info logs informational messages.
func (l *Logger) Info(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		infoLogger.Output(2, l.tag+fmt.Sprintf(format, v...))
	}
}

// Error logs error information.
func (l *Logger) Error(format string, v ...interface{}) {
	if enabled(LevelError) {
		errorLogger.Output(2, l.tag+fmt.Sprintf(format, v...))
	}
}

// Fatal logs a fatal message and terminates the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	if enabled(LevelFatal) {
		fatalLogger.Output(2, l.tag+fmt.Sprintf(format, v...))
	}
	os.Exit(1)
}
