package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/actions"
	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/discovery"
	"github.com/muurk/androidlens/internal/fields"
	"github.com/muurk/androidlens/internal/loader"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/metrics"
	"github.com/muurk/androidlens/internal/notify"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/version"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // Path to certificate file (optional, enables HTTPS with KeyPath)
	KeyPath  string // Path to private key file

	// RefreshInterval is the periodic fetch interval (0 = loader default)
	RefreshInterval time.Duration

	// ActionDelay and ToastDuration override the action and toast timings (0 = defaults)
	ActionDelay   time.Duration
	ToastDuration time.Duration

	// Advertise announces the dashboard over mDNS as Instance
	Advertise bool
	Instance  string
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// Server is the Android Lens web dashboard
type Server struct {
	config    *Config
	tlsConfig *tls.Config

	registry *prometheus.Registry
	metrics  metrics.Collector
	fields   fields.Registry

	toasts  *notify.Hub
	loader  *loader.Loader
	sidebar *ui.Sidebar
	themes  *ui.ThemeController
	actions *actions.Runner

	// ctx lives as long as the server; actions and the refresh loop outlive requests
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	clients map[string]*client

	httpServer *http.Server
	advertiser *discovery.Advertiser
}

// New creates a Server reading device data from src and persisting the
// theme to themes.
func New(config *Config, src loader.Source, themes ui.ThemeStore) (*Server, error) {
	if src == nil {
		return nil, errors.New("device source is required")
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewPrometheusCollector(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	hubOpts := []notify.Option{notify.WithMetrics(collector)}
	if config.ToastDuration > 0 {
		hubOpts = append(hubOpts, notify.WithDuration(config.ToastDuration))
	}
	toasts := notify.NewHub(hubOpts...)

	s := &Server{
		config:    config,
		tlsConfig: tlsConfig,
		registry:  registry,
		metrics:   collector,
		fields:    fields.Default(),
		toasts:    toasts,
		loader:    loader.New(src, loader.WithNotifier(toasts), loader.WithMetrics(collector)),
		sidebar:   ui.NewSidebar(ui.WebBreakpoint),
		themes:    ui.NewThemeController(themes),
		actions:   actions.NewRunner(toasts, collector, config.ActionDelay),
		ctx:       ctx,
		cancel:    cancel,
		clients:   make(map[string]*client),
	}

	s.loader.OnChange(func(_ device.Record) {
		s.broadcast(MessageRecord, s.model(""))
	})

	events, _ := toasts.Subscribe(64)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for ev := range events {
			s.broadcast(MessageToast, ev)
		}
	}()

	return s, nil
}

// Loader returns the server's data loader
func (s *Server) Loader() *loader.Loader {
	return s.loader
}

// Start serves the dashboard and blocks until a shutdown signal, ctx
// cancellation or a listener error.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()

	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
	}

	logging.Info("Starting Android Lens dashboard",
		zap.String("addr", addr),
		zap.String("scheme", scheme),
		zap.String("version", version.Get().Version),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		logging.Info("TLS Configuration", zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		s.advertiser, err = discovery.Advertise(s.instanceName(), port, []string{
			"path=/",
			"version=" + version.Get().Version,
		})
		if err != nil {
			// Dashboard still works without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loader.Run(s.ctx, s.config.RefreshInterval)
	}()

	logging.Info("Dashboard listening", zap.String("url", scheme+"://"+listener.Addr().String()))

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
		logging.Info("Context cancelled, stopping server...")
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.Shutdown(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(sctx)
}

func (s *Server) instanceName() string {
	if s.config.Instance != "" {
		return s.config.Instance
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return "Android Lens on " + host
}

// Shutdown stops the HTTP server, closes every client and waits for
// background work to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advertiser.Shutdown()

	var err error
	if s.httpServer != nil {
		if err = s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error stopping HTTP server", zap.Error(err))
		}
	}

	s.cancel()
	s.closeClients()
	s.toasts.Close()

	// Wait for background goroutines with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.actions.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All background work finished")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of connected WebSocket clients
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
