package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDBPath returns the platform default location of the record database.
// An explicit override (the --db flag) takes precedence over detection.
func DefaultDBPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	var dataDir string
	switch runtime.GOOS {
	case "darwin":
		dataDir = filepath.Join(home, "Library/Application Support/dialogue-recorder")
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, "dialogue-recorder")
		} else {
			dataDir = filepath.Join(home, ".local/share/dialogue-recorder")
		}
	default:
		return "", fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dataDir, "records.db"), nil
}

// DBExists checks whether a database file is already present at path.
func DBExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
