package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/logging"
)

const (
	// DashboardServiceType is announced by `androidlens serve --advertise`
	DashboardServiceType = "_androidlens._tcp"

	// APIServiceType is announced by device-info backends
	APIServiceType = "_androidlens-api._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an announcement carries no port
	DefaultPort = 80
)

// Scanner handles mDNS service discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for the given kinds until the timeout expires and returns
// every distinct service found. With no kinds both are browsed.
func (s *Scanner) Scan(ctx context.Context, kinds ...Kind) ([]*Service, error) {
	if len(kinds) == 0 {
		kinds = []Kind{KindDashboard, KindAPI}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		found    = make(map[string]*Service)
		browsers sync.WaitGroup
	)

	for _, kind := range kinds {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		entries := make(chan *zeroconf.ServiceEntry)
		browsers.Add(1)
		go func(kind Kind) {
			defer browsers.Done()
			for {
				select {
				case entry, ok := <-entries:
					if !ok {
						return
					}
					svc := parseServiceEntry(entry, kind)
					if svc == nil {
						continue
					}
					mu.Lock()
					found[string(kind)+"/"+svc.Instance] = svc
					mu.Unlock()
				case <-ctx.Done():
					return
				}
			}
		}(kind)

		if err := resolver.Browse(ctx, kind.ServiceType(), ServiceDomain, entries); err != nil {
			return nil, fmt.Errorf("failed to browse for %s: %w", kind.ServiceType(), err)
		}
	}

	<-ctx.Done()
	browsers.Wait()

	mu.Lock()
	defer mu.Unlock()

	services := make([]*Service, 0, len(found))
	for _, svc := range found {
		services = append(services, svc)
	}
	sortServices(services)

	logging.Debug("mDNS scan finished", zap.Int("services", len(services)))
	return services, nil
}

func sortServices(services []*Service) {
	sort.Slice(services, func(i, j int) bool {
		if services[i].Kind != services[j].Kind {
			return services[i].Kind < services[j].Kind
		}
		return services[i].Instance < services[j].Instance
	})
}

// parseServiceEntry converts a zeroconf service entry to a Service.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry, kind Kind) *Service {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Service{
		Kind:         kind,
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Advertiser announces a running dashboard over mDNS
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers the dashboard as instance on port. txt entries are
// "key=value" strings.
func Advertise(instance string, port int, txt []string) (*Advertiser, error) {
	server, err := zeroconf.Register(instance, DashboardServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Dashboard advertised over mDNS",
		zap.String("instance", instance),
		zap.String("service", DashboardServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the announcement
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
}
