package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	mu           sync.Mutex
	globalLogger *Logger
)

// Get returns the process-wide logger, initializing a console-only logger at
// the provided level on first use.
func Get(level string) *Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = newZapLogger(level, "")
	}
	return globalLogger
}

// Init replaces the process-wide logger with one at the given level, teeing
// output to filePath when non-empty. Called once the config is known; early
// startup logging goes through Get.
func Init(level, filePath string) *Logger {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = newZapLogger(level, filePath)
	return globalLogger
}
