package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "androidlens"
	configFile = "config.yaml"

	// ConfigDirEnvVar overrides the configuration directory
	ConfigDirEnvVar = "ANDROIDLENS_CONFIG_DIR"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// ANDROIDLENS_CONFIG_DIR takes precedence, then platform conventions:
//   - Linux: $XDG_CONFIG_HOME/androidlens or $HOME/.config/androidlens
//   - macOS: $HOME/.config/androidlens (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\androidlens
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir, nil
	}

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the configuration file. A missing file yields the defaults.
func Load() (*Registry, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFile(configPath)
}

// LoadFile reads the configuration from path. A missing file yields the
// defaults; Save writes back to path.
func LoadFile(path string) (*Registry, error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	registry, err := readFile(path)
	if err != nil {
		return nil, err
	}
	registry.path = path

	return registry, nil
}

// readFile parses the file at path with defaults applied. Callers hold
// fileMutex.
func readFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if registry.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", registry.Version, CurrentVersion)
	}

	registry.applyDefaults()
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &registry, nil
}

// Path returns the file the registry saves to
func (r *Registry) Path() string {
	return r.path
}

// Save saves the registry to disk.
// Performs an atomic write to prevent corruption on crash.
func (r *Registry) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := r.resolvePath()
	if err != nil {
		return err
	}
	if err := writeFile(configPath, r); err != nil {
		return err
	}

	r.path = configPath
	return nil
}

// resolvePath returns the file the registry saves to, defaulting to the OS
// config path
func (r *Registry) resolvePath() (string, error) {
	if r.path != "" {
		return r.path, nil
	}
	p, err := GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return p, nil
}

// writeFile atomically writes reg to configPath. Callers hold fileMutex.
func writeFile(configPath string, reg *Registry) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Android Lens Configuration File
# api.base_url empty = built-in sample data
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// LoadTheme returns the saved theme preference
func (r *Registry) LoadTheme() (string, error) {
	if r.Preferences == nil {
		return "", nil
	}
	return r.Preferences.Theme, nil
}

// SaveTheme records the theme preference. Only preferences.theme is
// written: the file is re-read and the rest of it kept as is, so per-run
// overrides applied to r never reach disk.
func (r *Registry) SaveTheme(theme string) error {
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
	r.Preferences.Theme = theme

	fileMutex.Lock()
	defer fileMutex.Unlock()

	configPath, err := r.resolvePath()
	if err != nil {
		return err
	}

	onDisk, err := readFile(configPath)
	if err != nil {
		return err
	}
	onDisk.Preferences.Theme = theme

	if err := writeFile(configPath, onDisk); err != nil {
		return err
	}

	r.path = configPath
	return nil
}
