// Package logging writes an optional debug log file for the command line tools.
package logging

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

var (
	debugLogger *log.Logger
	logFile     *os.File
	mu          sync.Mutex
)

// SetupLogger opens (or appends to) the debug log at path. Calling it again
// while a log is open is a no-op.
func SetupLogger(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	debugLogger = log.New(logFile, "", log.LstdFlags)
	debugLogger.Printf("--- hog debug log started at %s ---", time.Now().Format(time.RFC3339))
	return nil
}

// CloseLogger closes the log file if one is open.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		debugLogger.Printf("--- hog debug log closed at %s ---", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		debugLogger = nil
	}
}

// Infof logs to the debug file, or to the standard logger when no file is open.
func Infof(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("INFO: "+format, args...)
	} else {
		log.Printf("[*] "+format, args...)
	}
}

// Debugf logs only when a debug file is open.
func Debugf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("DEBUG: "+format, args...)
	}
}

// Warnf logs to the debug file and always to the standard logger.
func Warnf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("WARNING: "+format, args...)
	}
	log.Printf("[!] "+format, args...)
}

// Errorf logs to the debug file only; callers report the error themselves.
func Errorf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if debugLogger != nil {
		debugLogger.Printf("ERROR: "+format, args...)
	}
}
