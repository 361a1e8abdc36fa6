// Package loader owns the dashboard's current device record.
//
// A Loader starts from the loading placeholder and replaces the whole record
// each time its Source returns data. Failed fetches leave the record as it
// was and surface as an error toast.
package loader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/metrics"
	"github.com/muurk/androidlens/internal/notify"
)

// Toast messages shown around a refresh
const (
	MsgFetching = "Fetching device data..."
	MsgLoaded   = "Device data loaded successfully"
	MsgFailed   = "Failed to load device data"
)

// Listener is called with a copy of the record after every successful load
type Listener func(device.Record)

// Status describes the outcome of the most recent refresh
type Status struct {
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

type discardNotifier struct{}

func (discardNotifier) Show(message string, kind notify.Kind) notify.Toast {
	return notify.Toast{Message: message, Kind: kind, Icon: kind.Icon()}
}

// Loader fetches device data and holds the current record
type Loader struct {
	source   Source
	notifier notify.Notifier
	metrics  metrics.Collector
	now      func() time.Time

	mu        sync.RWMutex
	record    device.Record
	updatedAt time.Time
	lastErr   error

	listenersMu sync.Mutex
	listeners   []Listener
}

// Option configures a Loader
type Option func(*Loader)

// WithNotifier routes refresh toasts to n
func WithNotifier(n notify.Notifier) Option {
	return func(l *Loader) { l.notifier = n }
}

// WithMetrics attaches a metrics collector
func WithMetrics(c metrics.Collector) Option {
	return func(l *Loader) { l.metrics = c }
}

// WithClock overrides time.Now, which supplies payload fallbacks
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a loader holding the placeholder record
func New(src Source, opts ...Option) *Loader {
	l := &Loader{
		source:   src,
		notifier: discardNotifier{},
		metrics:  metrics.Noop(),
		now:      time.Now,
		record:   device.Placeholder(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record returns a copy of the current record
func (l *Loader) Record() device.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.record.Clone()
}

// Status reports the most recent refresh outcome
func (l *Loader) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := Status{Source: l.source.Name(), UpdatedAt: l.updatedAt}
	if l.lastErr != nil {
		st.LastError = ShortMessage(l.lastErr)
	}
	return st
}

// OnChange registers fn to run after every successful load
func (l *Loader) OnChange(fn Listener) {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Refresh fetches from the source once. On success the record is replaced
// as a whole and listeners are notified; on failure the record is kept.
func (l *Loader) Refresh(ctx context.Context) error {
	l.notifier.Show(MsgFetching, notify.KindInfo)

	start := time.Now()
	payload, err := l.source.Fetch(ctx)
	elapsed := time.Since(start)
	logging.LogFetch(l.source.Name(), elapsed, err)

	if err != nil {
		l.metrics.ObserveFetch(l.source.Name(), metrics.OutcomeError, elapsed)

		l.mu.Lock()
		l.lastErr = err
		l.mu.Unlock()

		l.notifier.Show(MsgFailed, notify.KindError)
		return err
	}
	l.metrics.ObserveFetch(l.source.Name(), metrics.OutcomeSuccess, elapsed)

	record := device.FromPayload(payload, l.now())
	l.Set(record)

	l.notifier.Show(MsgLoaded, notify.KindSuccess)
	return nil
}

// Set replaces the current record and notifies listeners
func (l *Loader) Set(record device.Record) {
	l.mu.Lock()
	l.record = record.Clone()
	l.updatedAt = l.now()
	l.lastErr = nil
	l.mu.Unlock()

	l.listenersMu.Lock()
	listeners := make([]Listener, len(l.listeners))
	copy(listeners, l.listeners)
	l.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(record.Clone())
	}
}

// Run refreshes immediately and then on every tick of interval until ctx is
// done. Each refresh runs in its own goroutine; a slow fetch does not delay
// or suppress the next one.
func (l *Loader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	logging.Info("Periodic refresh started",
		zap.String("source", l.source.Name()),
		zap.Duration("interval", interval),
	)

	var wg sync.WaitGroup
	refresh := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Refresh(ctx)
		}()
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			logging.Info("Periodic refresh stopped")
			return
		case <-ticker.C:
			refresh()
		}
	}
}
