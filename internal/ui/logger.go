// Package ui provides terminal styling and logger setup for barnsbot.
package ui

import (
	"os"

	"github.com/charmbracelet/log"
)

// InitLogger initializes the charm logger with default settings.
func InitLogger() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetReportTimestamp(false)
}

// SetDebug enables debug logging.
func SetDebug(enabled bool) {
	if enabled {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// SetServerMode timestamps log lines for long-running processes.
func SetServerMode() {
	log.SetReportTimestamp(true)
	log.SetTimeFormat("2006-01-02 15:04:05")
}
