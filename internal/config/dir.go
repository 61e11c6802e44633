package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configDirName is the directory under the user config directory holding the mappings file
const configDirName = "jira-notion-sync"

// ConfigDir returns the jira-notion-sync directory in the user config directory.
// It fails when neither XDG_CONFIG_HOME nor HOME is set.
func ConfigDir() (string, error) {
	userDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot obtain user config dir: %w", err)
	}

	return filepath.Join(userDir, configDirName), nil
}
