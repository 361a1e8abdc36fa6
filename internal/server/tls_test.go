package server

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/androidlens/internal/loader"
)

func TestNewTLSConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		cert     string
		key      string
		contains string
	}{
		{"missing key", "cert.pem", "", "both certificate and key"},
		{"missing cert", "", "key.pem", "both certificate and key"},
		{"unreadable files", filepath.Join(dir, "cert.pem"), filepath.Join(dir, "key.pem"), "failed to load"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewTLSConfig(tt.cert, tt.key)
			if err == nil {
				t.Fatalf("NewTLSConfig() = %v, want error", cfg)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want it to contain %q", err, tt.contains)
			}
		})
	}
}

func TestNew_TLSRequiresBothPaths(t *testing.T) {
	_, err := New(&Config{CertPath: "cert.pem"}, &loader.StaticSource{}, nil)
	if err == nil || !strings.Contains(err.Error(), "TLS") {
		t.Fatalf("New() error = %v, want TLS error", err)
	}
}
