package config

import (
	"os"
	"path/filepath"
)

type Config struct {
}

func LoadConfig() (*Config, error) {
	return &Config{}, nil
}

// GetAppConfigPaths returns config search paths for a given app name.
// Searches in order:
//  1. OS user config dir (e.g., ~/.config/appName/config.yaml)
//  2. Dot-directory in home (e.g., ~/.appName/config.yaml)
//  3. Dot-file in home (e.g., ~/.appName.yaml)
//  4. Current directory (e.g., ./appName.yaml)
//
// If legacyNames are provided, ~/.<legacyName>.json is also searched for each
// of them, for backward compatibility; no other location is added for them.
func GetAppConfigPaths(appName string, legacyNames ...string) []string {
	home := os.Getenv("HOME")

	var paths []string

	if configHome, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(configHome, appName, "config.yaml"),
			filepath.Join(configHome, appName, "config.json"),
		)
	}

	if home != "" {
		paths = append(paths,
			filepath.Join(home, "."+appName, "config.yaml"),
			filepath.Join(home, "."+appName, "config.json"),
		)
		paths = append(paths,
			filepath.Join(home, "."+appName+".yaml"),
			filepath.Join(home, "."+appName+".json"),
		)
	}

	paths = append(paths,
		"./"+appName+".yaml",
		"./"+appName+".json",
		"./."+appName+".yaml",
		"./."+appName+".json",
	)

	for _, legacyName := range legacyNames {
		if legacyName != appName && home != "" {
			paths = append(paths,
				filepath.Join(home, "."+legacyName+".json"),
			)
		}
	}

	return paths
}

// SaveConfig saves configuration to the specified path.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	// #nosec G301 -- config directories use 0755 for multi-user access compatibility
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// #nosec G304 -- intentional user-controlled file creation for saving configuration to user-specified path
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return nil
}
