package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Kind identifies which Android Lens service was found
type Kind string

const (
	// KindDashboard is a running androidlens web dashboard
	KindDashboard Kind = "dashboard"
	// KindAPI is a device-info backend
	KindAPI Kind = "api"
)

// ServiceType returns the mDNS service type for the kind
func (k Kind) ServiceType() string {
	if k == KindAPI {
		return APIServiceType
	}
	return DashboardServiceType
}

// Service is one discovered mDNS announcement
type Service struct {
	Kind     Kind
	Instance string // e.g., "Android Lens on forensics-01"
	Hostname string // e.g., "forensics-01.local."
	IP       string
	Port     int

	// Metadata holds the TXT records. Known keys: "path", "version".
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable representation of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s %q at %s", s.Kind, s.Instance, s.URL())
}

// BaseURL returns the HTTP base URL of the service
func (s *Service) BaseURL() string {
	return "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// URL returns the base URL joined with the advertised path, if any
func (s *Service) URL() string {
	path := s.GetMetadata("path")
	if path == "/" {
		path = ""
	}
	return s.BaseURL() + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
