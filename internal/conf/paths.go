package conf

import (
	"os"
	"path/filepath"
)

// GetDefaultConfigPaths returns the directories searched for config.yaml, in
// order: the working directory, the user config directory and /etc.
func GetDefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mrferreira"))
	}
	return append(paths, "/etc/mrferreira")
}
