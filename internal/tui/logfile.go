package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GRAFT_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.graft/logs/graft.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GRAFT_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "graft.log"
	}

	return filepath.Join(homeDir, ".graft", "logs", "graft.log")
}
