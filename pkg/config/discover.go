package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DetectConfig attempts to find a config file by walking up from the
// current directory looking for .rowtree/config.yaml.
func DetectConfig() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findConfig(dir)
}

// findConfig walks up from dir looking for .rowtree/config.yaml.
func findConfig(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, DirName, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
