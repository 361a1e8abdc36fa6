package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/androidlens/internal/loader"
)

// CurrentVersion is the config schema version this build reads and writes
const CurrentVersion = 1

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int          `yaml:"version"`
	API         *API         `yaml:"api,omitempty"`
	Server      *Server      `yaml:"server,omitempty"`
	Preferences *Preferences `yaml:"preferences,omitempty"`

	path string // File the registry was loaded from and saves to
}

// API describes where device data comes from. An empty BaseURL selects the
// built-in sample data.
type API struct {
	BaseURL        string            `yaml:"base_url"`
	Endpoint       string            `yaml:"endpoint"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	TimeoutSeconds int               `yaml:"timeout_seconds"` // 0 = no timeout
	RefreshMinutes int               `yaml:"refresh_minutes"`
}

// Server configures `androidlens serve`
type Server struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Advertise bool   `yaml:"advertise"` // Announce the dashboard over mDNS
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Theme string `yaml:"theme"` // "dark" or "light"
}

// Defaults
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8080
	DefaultRefreshMinutes = 5
)

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	r := &Registry{Version: CurrentVersion}
	r.applyDefaults()
	return r
}

// applyDefaults fills sections missing from a loaded file
func (r *Registry) applyDefaults() {
	if r.API == nil {
		r.API = &API{}
	}
	if r.API.Endpoint == "" {
		r.API.Endpoint = loader.DefaultEndpoint
	}
	if r.API.RefreshMinutes == 0 {
		r.API.RefreshMinutes = DefaultRefreshMinutes
	}
	if r.Server == nil {
		r.Server = &Server{}
	}
	if r.Server.Host == "" {
		r.Server.Host = DefaultHost
	}
	if r.Server.Port == 0 {
		r.Server.Port = DefaultPort
	}
	if r.Preferences == nil {
		r.Preferences = &Preferences{}
	}
}

// Validate checks values that would otherwise fail later at runtime
func (r *Registry) Validate() error {
	if r.API.TimeoutSeconds < 0 {
		return fmt.Errorf("api.timeout_seconds must not be negative")
	}
	if r.API.RefreshMinutes < 0 {
		return fmt.Errorf("api.refresh_minutes must not be negative")
	}
	if r.API.BaseURL != "" && !strings.HasPrefix(r.API.BaseURL, "http://") && !strings.HasPrefix(r.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://")
	}
	if r.Server.Port < 1 || r.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", r.Server.Port)
	}
	switch r.Preferences.Theme {
	case "", "dark", "light":
	default:
		return fmt.Errorf("preferences.theme must be dark or light, got %q", r.Preferences.Theme)
	}
	return nil
}

// Timeout returns the fetch timeout
func (a *API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the periodic refresh interval
func (a *API) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshMinutes) * time.Minute
}

// RequestHeaders returns the default headers merged with configured ones
func (a *API) RequestHeaders() map[string]string {
	headers := loader.DefaultHeaders()
	for k, v := range a.Headers {
		headers[k] = v
	}
	return headers
}

// Source builds the data source the API section describes
func (a *API) Source() loader.Source {
	if a.BaseURL == "" {
		return &loader.StaticSource{}
	}
	return loader.NewHTTPSource(a.BaseURL, a.Endpoint, a.RequestHeaders(), a.Timeout())
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
