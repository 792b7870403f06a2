package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetConfigDir returns the configuration directory for the current operating
// system, creating the conventional per-OS location lazily on first write.
func GetConfigDir() string {
	var appDataDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\DeskPilot\configs
		if appData := os.Getenv("APPDATA"); appData != "" {
			appDataDir = filepath.Join(appData, "DeskPilot", "configs")
		}
	case "darwin":
		// macOS: ~/Library/Application Support/DeskPilot/configs
		if homeDir, err := os.UserHomeDir(); err == nil {
			appDataDir = filepath.Join(homeDir, "Library", "Application Support", "DeskPilot", "configs")
		}
	}

	if appDataDir == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			appDataDir = filepath.Join(homeDir, ".deskpilot", "configs")
		} else {
			appDataDir = filepath.Join(".", "configs")
		}
	}

	return appDataDir
}

// GetVideoDir returns the directory where run recordings are written.
func GetVideoDir() string {
	return filepath.Join(filepath.Dir(GetConfigDir()), "videos")
}

// GetPlansDir returns the directory where generated plans are saved.
func GetPlansDir() string {
	return filepath.Join(filepath.Dir(GetConfigDir()), "plans")
}
