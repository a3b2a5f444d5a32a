package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "smartnotes"

// StoragePaths holds the directories the client reads and writes
type StoragePaths struct {
	ConfigDir string // config.yaml lives here
	DataDir   string // credential database lives here
}

// DetectStoragePaths resolves the config and data directories for the current OS.
// XDG_CONFIG_HOME and XDG_DATA_HOME are honoured on every platform.
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var configBase, dataBase string
	switch runtime.GOOS {
	case "darwin":
		configBase = filepath.Join(home, "Library/Application Support")
		dataBase = configBase
	case "linux", "freebsd", "openbsd", "netbsd":
		configBase = filepath.Join(home, ".config")
		dataBase = filepath.Join(home, ".local/share")
	case "windows":
		configBase = os.Getenv("APPDATA")
		dataBase = os.Getenv("LOCALAPPDATA")
		if configBase == "" || dataBase == "" {
			return StoragePaths{}, fmt.Errorf("APPDATA/LOCALAPPDATA not set")
		}
	default:
		return StoragePaths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configBase = xdg
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dataBase = xdg
	}

	return StoragePaths{
		ConfigDir: filepath.Join(configBase, appDirName),
		DataDir:   filepath.Join(dataBase, appDirName),
	}, nil
}

// ConfigFile returns the path of the YAML config file
func (sp StoragePaths) ConfigFile() string {
	return filepath.Join(sp.ConfigDir, "config.yaml")
}

// CredentialDBPath returns the path of the credential database
func (sp StoragePaths) CredentialDBPath() string {
	return filepath.Join(sp.DataDir, CredentialDBName)
}

// CredentialDBExists reports whether a credential database has been created
func (sp StoragePaths) CredentialDBExists() bool {
	_, err := os.Stat(sp.CredentialDBPath())
	return err == nil
}
