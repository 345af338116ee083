// ABOUTME: Leveled logging on top of the standard log package
// ABOUTME: Level comes from LOG_LEVEL/DEBUG env vars; an optional debug file captures everything

// Package logging provides a small leveled logging interface.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//
// The level is read from the LOG_LEVEL environment variable (or DEBUG=true)
// the first time it is needed and can be overridden with SetLevel.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	mu           sync.RWMutex
	currentLevel LogLevel
	levelOnce    sync.Once
	debugLog     *log.Logger
	debugFile    io.Closer
)

// ParseLevel converts a level name to a LogLevel. Unknown names map to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// initLevel initializes the log level from environment variables
func initLevel() {
	levelOnce.Do(func() {
		if debug := os.Getenv("DEBUG"); debug != "" {
			switch strings.ToLower(debug) {
			case "1", "true", "yes", "on":
				currentLevel = LevelDebug
				return
			}
		}

		currentLevel = ParseLevel(os.Getenv("LOG_LEVEL"))
	})
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()

	mu.RLock()
	defer mu.RUnlock()

	return currentLevel
}

// SetLevel overrides the level taken from the environment
func SetLevel(level LogLevel) {
	initLevel()

	mu.Lock()
	currentLevel = level
	mu.Unlock()
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// SetupDebugFile sends every message, whatever the level, to filename as well
func SetupDebugFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if debugFile != nil {
		_ = debugFile.Close()
	}

	debugFile = f
	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// CloseDebugFile stops writing to the debug file
func CloseDebugFile() error {
	mu.Lock()
	defer mu.Unlock()

	if debugFile == nil {
		return nil
	}

	err := debugFile.Close()
	debugFile = nil
	debugLog = nil

	return err
}

func logAt(level LogLevel, prefix, format string, args ...interface{}) {
	mu.RLock()
	fileLog := debugLog
	mu.RUnlock()

	if fileLog != nil {
		fileLog.Printf(prefix+format, args...)
	}

	if GetLevel() <= level {
		log.Printf(prefix+format, args...)
	}
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	logAt(LevelDebug, "[DEBUG] ", format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	logAt(LevelInfo, "[INFO] ", format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	logAt(LevelWarn, "[WARN] ", format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	logAt(LevelError, "[ERROR] ", format, args...)
}
