// Package config provides user configuration management for Android Lens.
//
// This package manages a YAML configuration file holding the device-info
// API settings, the dashboard server settings and the theme preference. The
// theme is the only value the application writes back on its own.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - $ANDROIDLENS_CONFIG_DIR/config.yaml when the variable is set
//   - Linux: $XDG_CONFIG_HOME/androidlens/config.yaml or $HOME/.config/androidlens/config.yaml
//   - macOS: $HOME/.config/androidlens/config.yaml
//   - Windows: %LOCALAPPDATA%\androidlens\config.yaml
//
// # File Format
//
//	version: 1
//	api:
//	  base_url: http://your-backend-api.com
//	  endpoint: /api/device/info
//	  headers:
//	    Authorization: Bearer abc
//	  timeout_seconds: 0
//	  refresh_minutes: 5
//	server:
//	  host: 127.0.0.1
//	  port: 8080
//	  advertise: false
//	preferences:
//	  theme: dark
//
// # Usage Example
//
//	registry, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	themes := ui.NewThemeController(registry) // Registry is a ui.ThemeStore
//
// # Thread Safety
//
// File operations are protected by a mutex and saves are atomic
// (temporary file then rename).
package config
