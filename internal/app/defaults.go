package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - WPM_CONFIG_PATH: config file location (default: ~/.config/wpmigrate.toml)
//   - WPM_HOME: base directory for wpmigrate data (default: ~/.local/share/wpmigrate)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking WPM_CONFIG_PATH env var first,
// then falling back to the default ~/.config/wpmigrate.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("WPM_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wpmigrate.toml"), nil
}

// getBaseDir returns the base directory for wpmigrate data, checking WPM_HOME env var first,
// then falling back to the XDG default ~/.local/share/wpmigrate.
func getBaseDir() (string, error) {
	if path := os.Getenv("WPM_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "wpmigrate"), nil
}

// DatabaseURL returns the destination connection string from the process
// environment. WPM_DATABASE_URL wins over the conventional DATABASE_URL.
func DatabaseURL() string {
	if dsn := os.Getenv("WPM_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return os.Getenv("DATABASE_URL")
}
