package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		kind         Kind
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
		wantURL      string
	}{
		{
			name: "dashboard with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Android Lens on lab-01"},
				HostName:      "lab-01.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"path=/", "version=v1.0.0"},
			},
			kind:         KindDashboard,
			wantInstance: "Android Lens on lab-01",
			wantIP:       "192.168.4.16",
			wantPort:     8080,
			wantURL:      "http://192.168.4.16:8080",
		},
		{
			name: "api with path",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "evidence-api"},
				HostName:      "evidence.local.",
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
				Text:          []string{"path=/api/device/info"},
			},
			kind:         KindAPI,
			wantInstance: "evidence-api",
			wantIP:       "10.0.0.5",
			wantPort:     9000,
			wantURL:      "http://10.0.0.5:9000/api/device/info",
		},
		{
			name: "missing port and instance",
			entry: &zeroconf.ServiceEntry{
				HostName: "bare.local.",
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.9")},
			},
			kind:         KindAPI,
			wantInstance: "bare.local",
			wantIP:       "10.0.0.9",
			wantPort:     DefaultPort,
			wantURL:      "http://10.0.0.9:80",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			kind:         KindDashboard,
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     8080,
			wantURL:      "http://[fe80::1]:8080",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				Port:          8080,
			},
			kind:    KindDashboard,
			wantNil: true,
		},
		{
			name:    "nil entry",
			kind:    KindDashboard,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := parseServiceEntry(tt.entry, tt.kind)

			if tt.wantNil {
				if svc != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", svc)
				}
				return
			}

			if svc == nil {
				t.Fatal("parseServiceEntry() returned nil")
			}
			if svc.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", svc.Kind, tt.kind)
			}
			if svc.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", svc.Instance, tt.wantInstance)
			}
			if svc.IP != tt.wantIP {
				t.Errorf("IP = %s, want %s", svc.IP, tt.wantIP)
			}
			if svc.Port != tt.wantPort {
				t.Errorf("Port = %d, want %d", svc.Port, tt.wantPort)
			}
			if svc.URL() != tt.wantURL {
				t.Errorf("URL() = %s, want %s", svc.URL(), tt.wantURL)
			}
			if svc.DiscoveredAt.IsZero() || time.Since(svc.DiscoveredAt) > time.Minute {
				t.Errorf("DiscoveredAt = %v", svc.DiscoveredAt)
			}
		})
	}
}

func TestService_Metadata(t *testing.T) {
	svc := parseServiceEntry(&zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "x"},
		AddrIPv4:      []net.IP{net.ParseIP("10.0.0.1")},
		Text:          []string{"version=v2", "flag"},
	}, KindDashboard)

	if svc.GetMetadata("version") != "v2" {
		t.Errorf("version = %q", svc.GetMetadata("version"))
	}
	if v, ok := svc.Metadata["flag"]; !ok || v != "" {
		t.Error("key without value should be kept with an empty value")
	}
	if svc.GetMetadata("missing") != "" {
		t.Error("missing key should be empty")
	}

	var empty Service
	if empty.GetMetadata("x") != "" {
		t.Error("nil metadata should be safe")
	}
}

func TestKind_ServiceType(t *testing.T) {
	if KindDashboard.ServiceType() != "_androidlens._tcp" {
		t.Errorf("dashboard type = %s", KindDashboard.ServiceType())
	}
	if KindAPI.ServiceType() != "_androidlens-api._tcp" {
		t.Errorf("api type = %s", KindAPI.ServiceType())
	}
}

func TestSortServices(t *testing.T) {
	services := []*Service{
		{Kind: KindDashboard, Instance: "b"},
		{Kind: KindAPI, Instance: "z"},
		{Kind: KindDashboard, Instance: "a"},
	}
	sortServices(services)

	want := []string{"api/z", "dashboard/a", "dashboard/b"}
	for i, s := range services {
		if got := string(s.Kind) + "/" + s.Instance; got != want[i] {
			t.Errorf("services[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestNewScanner(t *testing.T) {
	if NewScanner().Timeout != DefaultScanTimeout {
		t.Error("NewScanner() should use the default timeout")
	}
}
