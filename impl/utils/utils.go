package utils

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// OpenLogFile creates the log file, making parent directories as needed.
// An existing file is truncated: every run starts a fresh log.
func OpenLogFile(logFile string) *os.File {
	dir, _ := filepath.Split(logFile)
	if dir != "" {
		e := os.MkdirAll(dir, os.ModePerm)
		if e != nil {
			log.Printf("Could not create parent directories for %s, error: %v", logFile, e)
		}
	}

	f, e := os.Create(logFile)
	if e != nil {
		log.Printf("Could not open file %s to write logs into, error: %v", logFile, e)
	}

	return f
}

// FormatClock renders the short wall-clock stamp carried inside payloads.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatTimestamp renders the full stamp used in audit log entries.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
