// Package metrics exposes dashboard telemetry through Prometheus.
//
// Components depend on the Collector interface and receive Noop() in tests
// and TUI mode. The web server wires a PrometheusCollector and serves it on
// /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "androidlens"

// Fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector records dashboard events
type Collector interface {
	ObserveFetch(source, outcome string, d time.Duration)
	IncToast(kind string)
	IncAction(action string)
	SetClients(n int)
	ObserveHTTP(route string, code int)
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) ObserveFetch(string, string, time.Duration) {}
func (noopCollector) IncToast(string)                            {}
func (noopCollector) IncAction(string)                           {}
func (noopCollector) SetClients(int)                             {}
func (noopCollector) ObserveHTTP(string, int)                    {}

// PrometheusCollector exposes dashboard counters via Prometheus.
type PrometheusCollector struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	lastSuccess   prometheus.Gauge
	toasts        *prometheus.CounterVec
	actions       *prometheus.CounterVec
	clients       prometheus.Gauge
	requests      *prometheus.CounterVec
}

// NewPrometheusCollector registers the dashboard metrics with reg. Metrics
// that are already registered are reused, so calling it twice with the same
// registerer is safe.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var (
		p   PrometheusCollector
		err error
	)

	if p.fetches, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Device data fetches by source and outcome.",
	}, []string{"source", "outcome"})); err != nil {
		return nil, err
	}

	if p.fetchDuration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching device data.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})); err != nil {
		return nil, err
	}

	if p.lastSuccess, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fetch_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful fetch.",
	})); err != nil {
		return nil, err
	}

	if p.toasts, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_total",
		Help:      "Toast notifications shown by kind.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}

	if p.actions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Device actions requested.",
	}, []string{"action"})); err != nil {
		return nil, err
	}

	if p.clients, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected dashboard WebSocket clients.",
	})); err != nil {
		return nil, err
	}

	if p.requests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Served HTTP requests by route and status code.",
	}, []string{"route", "code"})); err != nil {
		return nil, err
	}

	return &p, nil
}

// register adds c to reg, returning the existing collector when an
// identical one is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// ObserveFetch records one fetch attempt
func (p *PrometheusCollector) ObserveFetch(source, outcome string, d time.Duration) {
	if p == nil {
		return
	}
	p.fetches.WithLabelValues(source, outcome).Inc()
	p.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		p.lastSuccess.SetToCurrentTime()
	}
}

// IncToast counts a shown toast
func (p *PrometheusCollector) IncToast(kind string) {
	if p == nil {
		return
	}
	p.toasts.WithLabelValues(kind).Inc()
}

// IncAction counts a requested device action
func (p *PrometheusCollector) IncAction(action string) {
	if p == nil {
		return
	}
	p.actions.WithLabelValues(action).Inc()
}

// SetClients updates the connected client gauge
func (p *PrometheusCollector) SetClients(n int) {
	if p == nil {
		return
	}
	p.clients.Set(float64(n))
}

// ObserveHTTP counts a served request
func (p *PrometheusCollector) ObserveHTTP(route string, code int) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
