package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global directory (~/.voltsight).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// localDir is the per-directory data folder checked before the global one.
const localDir = "." + AppName

// GetDataDir returns where local storage and crash logs live.
// Resolution order (first match wins):
// 1. Explicit config via "storage.path" (Viper/env/flag)
// 2. Local directory: ./.voltsight (if exists)
// 3. XDG_DATA_HOME/voltsight (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.voltsight
func GetDataDir() string {
	if path := viper.GetString("storage.path"); path != "" {
		return path
	}

	if info, err := os.Stat(localDir); err == nil && info.IsDir() {
		return localDir
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, AppName)
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return localDir
	}
	return dir
}

// ConfigSearchPaths lists the directories searched for .voltsight.yaml,
// highest priority first.
func ConfigSearchPaths() []string {
	var paths []string
	if info, err := os.Stat(localDir); err == nil && info.IsDir() {
		paths = append(paths, localDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}
	return append(paths, ".")
}

// TraceLogPath is where the debug trace goes while the TUI owns the terminal.
func TraceLogPath() string {
	return filepath.Join(GetDataDir(), "logs", AppName+".log")
}
