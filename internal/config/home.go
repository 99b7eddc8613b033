package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDirName is the per-project state directory name.
const HomeDirName = ".qbc"

// HomeDir returns the qbc state directory without creating it.
// Priority order:
//  1. QBC_HOME environment variable (if set)
//  2. .qbc in the current working directory
func HomeDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	return HomeDirName
}

// GetHome returns the absolute qbc state directory, creating it if needed.
func GetHome() (string, error) {
	home, err := filepath.Abs(HomeDir())
	if err != nil {
		return "", fmt.Errorf("resolve qbc home: %w", err)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create qbc home directory: %w", err)
	}
	return home, nil
}
